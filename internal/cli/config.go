package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var printConfigCmd = &cobra.Command{
	Use:   "print-config",
	Short: "Show resolved configuration",
	Long:  "Display the effective configuration and which files it was loaded from.",
	Args:  cobra.NoArgs,
	RunE:  runPrintConfig,
}

func init() {
	rootCmd.AddCommand(printConfigCmd)
}

func runPrintConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		ExitConfigError(err)
		return nil
	}

	if GetJSONOutput() {
		output := map[string]interface{}{
			"effective_cwd":      cfg.EffectiveCwd,
			"data_dir":           cfg.DataDirAbs,
			"actor":              cfg.Actor,
			"page_size":          cfg.PageSize,
			"search_debounce_ms": cfg.SearchDebounceMS,
			"locale":             cfg.Locale,
			"currency":           cfg.Currency,
			"row_height":         cfg.RowHeight,
			"overscan":           cfg.Overscan,
			"global_config":      cfg.Sources.Global,
			"project_config":     cfg.Sources.Project,
		}
		data, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	fmt.Println("effective_cwd=" + cfg.EffectiveCwd)
	fmt.Println("data_dir=" + cfg.DataDirAbs)
	fmt.Println("actor=" + cfg.Actor)
	fmt.Println("page_size=" + strconv.Itoa(cfg.PageSize))
	fmt.Println("search_debounce_ms=" + strconv.Itoa(cfg.SearchDebounceMS))
	fmt.Println("locale=" + cfg.Locale)
	fmt.Println("currency=" + cfg.Currency)
	fmt.Println("row_height=" + strconv.Itoa(cfg.RowHeight))
	fmt.Println("overscan=" + strconv.Itoa(cfg.Overscan))

	fmt.Println("")
	fmt.Println("# sources")

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
		fmt.Println("(defaults only)")
	} else {
		if cfg.Sources.Global != "" {
			fmt.Println("global_config=" + cfg.Sources.Global)
		}
		if cfg.Sources.Project != "" {
			fmt.Println("project_config=" + cfg.Sources.Project)
		}
	}
	return nil
}
