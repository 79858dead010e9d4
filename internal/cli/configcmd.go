package cli

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// newConfigCommand 显示生效的配置
func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Key", "Value"})
			tw.AppendRows([]table.Row{
				{"provider", cfg.Provider},
				{"model", cfg.Model},
				{"api_key", maskSecret(cfg.APIKey)},
				{"base_url", cfg.BaseURL},
				{"target_lang", cfg.TargetLang},
				{"workers", cfg.Workers},
				{"min_request_interval", fmt.Sprintf("%.2fs", cfg.MinRequestInterval)},
				{"max_retries", cfg.MaxRetries},
				{"backoff_factor", cfg.BackoffFactor},
				{"max_chunk_chars", cfg.MaxChunkChars},
				{"min_alpha_chars", cfg.MinAlphaChars},
				{"max_identifier_len", cfg.MaxIdentifierLen},
				{"project_root", cfg.ProjectRoot},
				{"temperature", cfg.Temperature},
				{"thinking_budget", cfg.ThinkingBudget},
				{"request_timeout_seconds", cfg.RequestTimeoutSeconds},
			})
			tw.SetStyle(table.StyleLight)
			tw.Render()
			return nil
		},
	})

	return cmd
}

// maskSecret 只保留前后各 3 个字符
func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:3] + "..." + s[len(s)-3:]
}
