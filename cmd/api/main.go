package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "hearth",
	Short:   "Hearth - 社区互动一致性服务",
	Version: Version,
}

func init() {
	rootCmd.PersistentFlags().String("config", "./configs", "配置文件目录")

	recountCmd.Flags().Uint64("post-id", 0, "只回算指定帖子")
	recountCmd.Flags().Int("batch", 500, "全量回算每批帖子数")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(recountCmd)
	rootCmd.AddCommand(roleCmd)
}
