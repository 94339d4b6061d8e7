package main

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sqliteai/go-vector/kernel"
	"github.com/sqliteai/go-vector/vecsql"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "vecctl",
	Short: "CLI tool for the SQLite vector extension",
	Long:  `A command-line interface for registering, quantizing and searching vector columns in a SQLite database.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the library version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(vecsql.Version)
		return nil
	},
}

var backendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Print the SIMD backend the process detected",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(kernel.DetectBackend().String())
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init <table> <column> <options>",
	Short: "Register a vector column, e.g. options 'type=FLOAT32,dimension=384,distance=cosine'",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()
		if err := e.InitColumn(context.Background(), args[0], args[1], args[2]); err != nil {
			return err
		}
		fmt.Printf("column %s.%s registered\n", args[0], args[1])
		return nil
	},
}

var quantizeCmd = &cobra.Command{
	Use:   "quantize <table> <column>",
	Short: "Rebuild the byte-quantized shadow store for a registered column",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()
		if err := e.Quantize(context.Background(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("column %s.%s quantized\n", args[0], args[1])
		return nil
	},
}

var preloadCmd = &cobra.Command{
	Use:   "preload <table> <column>",
	Short: "Load a column's shadow store into memory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()
		if err := e.Preload(context.Background(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("column %s.%s preloaded\n", args[0], args[1])
		return nil
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup <table> <column>",
	Short: "Drop a column's shadow store and unregister it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()
		if err := e.Cleanup(context.Background(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("column %s.%s cleaned up\n", args[0], args[1])
		return nil
	},
}

var memoryCmd = &cobra.Command{
	Use:   "memory <table> <column>",
	Short: "Print the byte size of a column's quantized shadow store",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()
		n, err := e.MemoryReport(context.Background(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Println(n)
		return nil
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan <table> <column> <vector>",
	Short: "Run a top-k nearest neighbor search over a registered column",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, _ := cmd.Flags().GetInt("top-k")
		quantized, _ := cmd.Flags().GetBool("quantized")

		query, err := parseVectorFlag(args[2])
		if err != nil {
			return err
		}

		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := context.Background()
		var results []vecsql.SearchResult
		if quantized {
			results, err = e.QuantizedScan(ctx, args[0], args[1], query, k)
		} else {
			results, err = e.FullScan(ctx, args[0], args[1], query, k)
		}
		if err != nil {
			return err
		}

		for _, r := range results {
			fmt.Printf("%d\t%g\n", r.RowID, r.Distance)
		}
		return nil
	},
}

func parseVectorFlag(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		return vecsql.ParseJSONVector(s)
	}
	parts := strings.Split(s, ",")
	out := make([]float32, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vector component %q: %w", p, err)
		}
		out = append(out, float32(v))
	}
	return out, nil
}

func openEngine() (*vecsql.Engine, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("database path not specified")
	}
	return vecsql.Open(vecsql.DefaultEngineConfig(dbPath))
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "vectors.db", "Database file path")

	scanCmd.Flags().Int("top-k", 10, "Number of results to return")
	scanCmd.Flags().Bool("quantized", false, "Search the quantized shadow store instead of a full scan")

	rootCmd.AddCommand(
		versionCmd,
		backendCmd,
		initCmd,
		quantizeCmd,
		preloadCmd,
		cleanupCmd,
		memoryCmd,
		scanCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
