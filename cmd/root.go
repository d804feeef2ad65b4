/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

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
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gopipe/logger"
	"github.com/notargets/gopipe/pipeline"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gopipe",
	Short: "Steady state flow solver for pipelines",
	Long: `
Solves the steady, single phase flow through pipes in series between two
boundary pressures, with leaks, valves and fluid properties along the way.

gopipe solve -I pipeline.yaml`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gopipe.yaml)")
	rootCmd.PersistentFlags().Float64("tolerance", pipeline.DefaultTolerance, "convergence tolerance on the downstream pressure, Pa")
	rootCmd.PersistentFlags().Int("maxIterations", pipeline.DefaultMaxIterations, "iteration limit of the mass flow root finder")
	rootCmd.PersistentFlags().String("logLevel", "warn", "debug, info, warn or error")
	rootCmd.PersistentFlags().String("logFile", "", "also log as JSON to this file, rotated")
	_ = viper.BindPFlag("tolerance", rootCmd.PersistentFlags().Lookup("tolerance"))
	_ = viper.BindPFlag("maxIterations", rootCmd.PersistentFlags().Lookup("maxIterations"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("logLevel"))
	_ = viper.BindPFlag("log.file", rootCmd.PersistentFlags().Lookup("logFile"))
	viper.SetDefault("cacheSize", pipeline.DefaultCacheSize)
	viper.SetDefault("log.maxSizeMB", 10)
	viper.SetDefault("log.maxBackups", 3)
	viper.SetDefault("log.maxAgeDays", 28)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".gopipe")
	}
	viper.SetEnvPrefix("GOPIPE")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
	err := logger.InitLogger(logger.Config{
		Level:      viper.GetString("log.level"),
		File:       viper.GetString("log.file"),
		MaxSizeMB:  viper.GetInt("log.maxSizeMB"),
		MaxBackups: viper.GetInt("log.maxBackups"),
		MaxAgeDays: viper.GetInt("log.maxAgeDays"),
		Compress:   viper.GetBool("log.compress"),
	})
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func solverOptions() pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.Tolerance = viper.GetFloat64("tolerance")
	opts.MaxIterations = viper.GetInt("maxIterations")
	opts.CacheSize = viper.GetInt("cacheSize")
	return opts
}
