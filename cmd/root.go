package cmd

import (
	"fmt"
	"os"
	"time"

	trek "github.com/TFMV/trek/internal/visit"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "trek [options] [path ...]",
	Short: "A concurrent file counting utility",
	Long: `trek walks the directory trees rooted at the given paths with a pool of
concurrent workers and reports the number of regular files found. Descent is
confined to the filesystems the paths live on; when no path is given the
whole root filesystem is walked.`,
	Version: version,
	Args:    cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := args
		if len(paths) == 0 {
			paths = []string{"/"}
		}
		return runCount(paths)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Flags
	rootCmd.Flags().IntP("workers", "w", trek.DefaultWorkers, "Number of concurrent workers")
	rootCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.Flags().Bool("silent", false, "Disable all output except errors")
	rootCmd.Flags().String("pattern", "", "Count only files whose name matches this glob")

	// Bind flags to viper
	viper.BindPFlag("workers", rootCmd.Flags().Lookup("workers"))
	viper.BindPFlag("verbose", rootCmd.Flags().Lookup("verbose"))
	viper.BindPFlag("silent", rootCmd.Flags().Lookup("silent"))
	viper.BindPFlag("pattern", rootCmd.Flags().Lookup("pattern"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".trek" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".trek")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func logLevel() trek.LogLevel {
	switch {
	case viper.GetBool("verbose"):
		return trek.LogLevelDebug
	case viper.GetBool("silent"):
		return trek.LogLevelError
	default:
		return trek.LogLevelInfo
	}
}

func runCount(paths []string) error {
	workers := viper.GetInt("workers")
	if workers < 1 {
		return fmt.Errorf("invalid workers value: %d", workers)
	}

	counter := trek.NewCountingVisitor(paths)
	var visitor trek.Visitor = counter
	if pattern := viper.GetString("pattern"); pattern != "" {
		visitor = &trek.FilterVisitor{Inner: counter, Pattern: pattern}
	}

	start := time.Now()
	err := trek.VisitPathsWithOptions(paths, visitor, trek.Options{
		NumWorkers: workers,
		LogLevel:   logLevel(),
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if !viper.GetBool("silent") {
		fmt.Printf("Walked %d path(s) in %s\n", len(paths), elapsed.Round(time.Millisecond))
		fmt.Printf("Files found: %s\n", humanize.Comma(int64(counter.FileCount())))
	}
	return nil
}
