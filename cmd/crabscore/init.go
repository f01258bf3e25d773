package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/crabscore/domain"
	"github.com/ludo-technologies/crabscore/internal/config"
	"github.com/ludo-technologies/crabscore/internal/constants"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a crabscore configuration file",
		Long: `Generate a documented crabscore configuration file with sensible defaults.

By default, creates crabscore.yaml in the current directory with full
documentation. Use --interactive for a guided setup wizard.

Examples:
  # Create crabscore.yaml in current directory
  crabscore init

  # Custom output path
  crabscore init --config ci/crabscore.yaml

  # Overwrite existing file
  crabscore init --force

  # Generate smaller config with essential options only
  crabscore init --minimal

  # Interactive setup wizard
  crabscore init --interactive
  crabscore init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", constants.ConfigFileName,
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().Bool("minimal", false,
		"Generate minimal config with essential options only")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	minimal, _ := cmd.Flags().GetBool("minimal")
	interactive, _ := cmd.Flags().GetBool("interactive")

	profile := domain.ProfileWebServices
	depth := config.BenchmarkDepthStandard

	if interactive {
		var err error
		profile, depth, configPath, err = runInteractiveSetup(configPath)
		if err != nil {
			return err
		}
	}

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	var content string
	if minimal {
		content = config.GetMinimalConfigTemplate()
	} else {
		content = config.GetFullConfigTemplate(profile, depth)
	}

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", displayPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nRun 'crabscore score .' to score your project.")

	return nil
}

func runInteractiveSetup(defaultConfigPath string) (domain.ProfileKind, config.BenchmarkDepth, string, error) {
	fmt.Println()
	fmt.Println("crabscore Configuration Setup")
	fmt.Println("=============================")
	fmt.Println()

	profiles := []struct {
		Label       string
		Description string
		Value       domain.ProfileKind
	}{
		{"Web services (default)", "APIs and backends: performance first", domain.ProfileWebServices},
		{"IoT / embedded", "Battery and thermal limits: energy first", domain.ProfileIotEmbedded},
		{"Financial", "Latency-sensitive trading and payments", domain.ProfileFinancial},
		{"Gaming", "Frame times above all", domain.ProfileGaming},
		{"Enterprise", "Total cost of ownership first", domain.ProfileEnterprise},
	}

	profileTemplates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
		Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	profilePrompt := promptui.Select{
		Label:     "Which industry profile fits this project?",
		Items:     profiles,
		Templates: profileTemplates,
	}

	profileIdx, _, err := profilePrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("profile selection cancelled: %w", err)
	}
	selectedProfile := profiles[profileIdx].Value

	fmt.Println()

	presets := config.GetBenchmarkPresets()
	depths := []struct {
		Label       string
		Description string
		Value       config.BenchmarkDepth
	}{
		{"Standard (recommended)", presets[config.BenchmarkDepthStandard].Description, config.BenchmarkDepthStandard},
		{"Quick", presets[config.BenchmarkDepthQuick].Description, config.BenchmarkDepthQuick},
		{"Thorough", presets[config.BenchmarkDepthThorough].Description, config.BenchmarkDepthThorough},
	}

	depthTemplates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
		Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	depthPrompt := promptui.Select{
		Label:     "How many benchmark runs?",
		Items:     depths,
		Templates: depthTemplates,
	}

	depthIdx, _, err := depthPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("benchmark depth selection cancelled: %w", err)
	}
	selectedDepth := depths[depthIdx].Value

	fmt.Println()

	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}

	outputPath, err := outputPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("output path input cancelled: %w", err)
	}

	if outputPath == "" {
		outputPath = defaultConfigPath
	}

	fmt.Println()
	fmt.Printf("Creating %s... ", outputPath)

	return selectedProfile, selectedDepth, outputPath, nil
}
