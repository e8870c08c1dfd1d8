package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bankfeed/bankfeed/ai"
	"github.com/bankfeed/bankfeed/extractor/common"
)

// Embedded default configuration (from .bankfeed.yaml)
const defaultConfigYAML = `
sign_policy: preserve
excluded_descriptions:
  - beginning balance
  - begining balance
  - starting balance
  - ending balance
  - opening balance
  - closing balance
  - previous balance
  - current balance
  - balance forward
  - balance brought forward
  - total credits
  - total debits
  - credit total
  - debit total
  - payment due date
  - statement closing date
  - past due amount
  - trans date
  - post date
  - reference
  - transactions
  - description
  - amount
  - total fees for this period
  - interest charged
  - interest charge on purchases
  - interest charge on cash advances
  - total interest for this period
  - fees
  - fsf1
  - fsfq
credit_phrases:
  - payment
  - credit
  - deposit
  - refund
  - reimbursement
  - reward
  - cash back
  - cashback
  - interest credit
  - direct deposit
  - payroll
  - transfer from
  - payment received
  - credit adjustment
  - credit balance
  - early pay
  - ach from
  - ach deposit
  - check deposit
  - pos credit
debit_override_phrases:
  - payroll fees
ai:
  enabled: false
  model: gemini-2.0-flash
  max_output_tokens: 16000
  max_input_chars: 120000
ocr:
  enabled: true`

var (
	cfgFile string
	verbose bool
	rootCmd = &cobra.Command{
		Use:   "bankfeed [filename]",
		Short: "Bank statement parsing and normalization",
		Long:  `bankfeed extracts normalized transactions out of CSV and PDF bank statements`,
		Args:  cobra.ArbitraryArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 1 {
				viper.Set("target", args[0])
				runParse(parseCmd, []string{})
				return
			}
			cmd.Help()
		},
	}
)

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default is ./.bankfeed.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initLogging() {
	if !verbose {
		log.SetOutput(io.Discard)
	} else {
		log.SetFlags(log.Ltime | log.Lmsgprefix)
		log.SetPrefix("INFO: ")
	}
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in current directory and home directory
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigName(".bankfeed")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No config file found, use embedded default configuration
			if err := viper.ReadConfig(bytes.NewBufferString(defaultConfigYAML)); err != nil {
				fmt.Printf("Error loading embedded configuration: %v\n", err)
				os.Exit(1)
			}
		} else {
			fmt.Printf("Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}
}

// configFromViper builds the parsing configuration from whatever config
// source viper resolved. Missing keys fall back to the built-in defaults.
func configFromViper() common.Config {
	cfg := common.DefaultConfig()

	if v := viper.GetString("sign_policy"); v != "" {
		cfg.SignPolicy = common.SignPolicy(v)
	}
	if v := viper.GetStringSlice("excluded_descriptions"); len(v) > 0 {
		cfg.ExcludedDescriptions = v
	}
	if v := viper.GetStringSlice("credit_phrases"); len(v) > 0 {
		cfg.CreditPhrases = v
	}
	if v := viper.GetStringSlice("debit_override_phrases"); len(v) > 0 {
		cfg.DebitOverridePhrases = v
	}

	cfg.AI.Enabled = viper.GetBool("ai.enabled")
	if v := viper.GetString("ai.model"); v != "" {
		cfg.AI.Model = v
	}
	if v := viper.GetInt32("ai.max_output_tokens"); v > 0 {
		cfg.AI.MaxOutputTokens = v
	}
	if v := viper.GetInt("ai.max_input_chars"); v > 0 {
		cfg.AI.MaxInputChars = v
	}
	if viper.IsSet("ocr.enabled") {
		cfg.OCREnabled = viper.GetBool("ocr.enabled")
	}

	return cfg
}

// generatorFromConfig returns the model client for AI-assisted extraction,
// or nil when the feature is disabled.
func generatorFromConfig(cfg common.Config) ai.Generator {
	if !cfg.AI.Enabled {
		return nil
	}
	return ai.NewGeminiClient(cfg.AI.Model)
}
