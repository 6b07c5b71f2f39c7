package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/HorseArcher567/logsink/pkg/app"
	"github.com/HorseArcher567/logsink/pkg/config"
	"github.com/HorseArcher567/logsink/pkg/xlog"
	"github.com/HorseArcher567/logsink/pkg/xlog/rotate"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "logsink",
	Short: "Leveled logging to console and a daily archived file",
	Long:  `Write leveled records to the console and to a log file, each with its own threshold, archiving the file once per day`,
}

var logCmd = &cobra.Command{
	Use:   "log [level] [message...]",
	Short: "Write one record",
	Long:  `Write one record at the given level (DEBUG, INFO, WARN or ERROR)`,
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		fw, err := framework(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		level, message := args[0], strings.Join(args[1:], " ")
		app.MustNew(fw).Run(func(ctx context.Context, a *app.App) error {
			return a.Logger().Log(level, message)
		})
	},
}

var rotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Archive the log file if it was last written on another day",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fw, err := framework(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		rcfg, err := fw.LoggerCfg.RotateConfig()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		archived, err := rotate.Rotate(rcfg)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if archived == "" {
			fmt.Printf("Nothing to rotate: %s\n", rcfg.Path())
			return
		}
		fmt.Printf("Archived %s -> %s\n", rcfg.Path(), archived)
	},
}

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a levels file",
	Long:  `Write a levels file with a [file] and a [console] section`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := xlog.DefaultConfigFile
		if len(args) == 1 {
			path = args[0]
		}

		fileLevel, _ := cmd.Flags().GetString("file-level")
		consoleLevel, _ := cmd.Flags().GetString("console-level")
		for _, name := range []string{fileLevel, consoleLevel} {
			if _, err := xlog.ParseLevel(name); err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
		}

		cfg := config.New()
		cfg.Set(xlog.SinkFile+".level", strings.ToUpper(fileLevel))
		cfg.Set(xlog.SinkConsole+".level", strings.ToUpper(consoleLevel))
		if err := cfg.WriteToFile(path); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Levels written to %s\n", path)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("logsink version %s\n", version)
	},
}

// framework 从 --app-config 文件加载配置，命令行中显式指定的标志优先
func framework(cmd *cobra.Command) (*app.Framework, error) {
	fw := &app.Framework{}
	if path, _ := cmd.Flags().GetString("app-config"); path != "" {
		if err := config.Unmarshal(path, fw); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	cfg := &fw.LoggerCfg
	if flags.Changed("dir") || cfg.Dir == "" {
		cfg.Dir, _ = flags.GetString("dir")
	}
	if flags.Changed("file") || cfg.File == "" {
		cfg.File, _ = flags.GetString("file")
	}
	if flags.Changed("config") || cfg.LevelsFile == "" {
		cfg.LevelsFile, _ = flags.GetString("config")
	}
	if flags.Changed("console-level") {
		cfg.ConsoleLevel, _ = flags.GetString("console-level")
	}
	if flags.Changed("truncate") {
		cfg.Truncate, _ = flags.GetBool("truncate")
	}
	if flags.Changed("tz") {
		cfg.Timezone, _ = flags.GetString("tz")
	}
	if flags.Changed("rotate") {
		cfg.Rotate, _ = flags.GetString("rotate")
	}
	if flags.Changed("max-age") {
		cfg.MaxAge, _ = flags.GetInt("max-age")
	}
	if flags.Changed("disabled") {
		cfg.Disabled, _ = flags.GetBool("disabled")
	}
	return fw, nil
}

func addSinkFlags(cmd *cobra.Command) {
	cmd.Flags().String("app-config", "", "Application config file (yaml/toml/json) with a logger section")
	cmd.Flags().StringP("dir", "d", "logs", "Log directory")
	cmd.Flags().StringP("file", "f", "app.log", "Log file name")
	cmd.Flags().StringP("config", "c", xlog.DefaultConfigFile, "Levels file with [file] and [console] sections")
	cmd.Flags().String("tz", "", "Timezone for timestamps and rotation (default local)")
	cmd.Flags().String("rotate", "day", "Rotation check: day (day of month) or date (full date)")
	cmd.Flags().Int("max-age", 0, "Days to keep archives, 0 keeps all")
}

func init() {
	addSinkFlags(logCmd)
	logCmd.Flags().String("console-level", "", "Override the console level")
	logCmd.Flags().Bool("truncate", false, "Truncate the log file instead of appending")
	logCmd.Flags().Bool("disabled", false, "Use the no-op sink")

	addSinkFlags(rotateCmd)

	initCmd.Flags().String("file-level", "DEBUG", "Level of the file sink")
	initCmd.Flags().String("console-level", "ERROR", "Level of the console sink")

	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(rotateCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
