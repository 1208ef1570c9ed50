/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/valpere/lectran/internal/config"
	"github.com/valpere/lectran/internal/logging"
)

var version = "0.1.0"

var (
	cfgFile   string
	logLevel  string
	logFormat string

	// Populated by PersistentPreRunE before any subcommand runs.
	appManager *config.Manager
	appConfig  *config.Config
	logger     *charmlog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lectran",
	Short: "Lesson script translator",
	Long: `A CLI application that translates spoken lesson scripts while keeping
the translation close enough in length to dub over the original audio.

The full pipeline corrects grammar, translates sentence by sentence with
a terminology glossary, and runs a length adjustment pass when the word
or syllable counts drift outside tolerance. A lighter three-step workflow
hands translation to a machine translation service instead.

Use "lectran translate --help" for translation options.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		appManager = mgr
		appConfig = mgr.Config()
		if logLevel != "" {
			appConfig.Log.Level = logLevel
		}
		if logFormat != "" {
			appConfig.Log.Format = logFormat
		}
		logger = logging.New(os.Stderr, appConfig.Log)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./lectran.yaml, then ~/.config/lectran/lectran.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json (overrides config)")
}
