package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fastertools/hokusai/internal/config"
	"github.com/fastertools/hokusai/internal/scaffold"
	"github.com/fastertools/hokusai/pkg/addon"
	"github.com/fastertools/hokusai/pkg/oci"
	"github.com/fastertools/hokusai/pkg/profile"
	"github.com/fastertools/hokusai/pkg/types"
)

// askOne is replaced in tests
var askOne = survey.AskOne

// SetupOptions holds options for the setup command
type SetupOptions struct {
	ProjectName   string
	AWSAccountID  string
	AWSECRRegion  string
	Framework     string
	Port          int
	Addons        types.AddonSelection
	Dir           string
	NoInteractive bool
	Output        string
}

// flags whose values may also come from config.yml or HOKUSAI_* variables
var boundSetupFlags = []string{"project-name", "aws-account-id", "aws-ecr-region", "framework", "port"}

// newSetupCmd creates the setup command
func newSetupCmd() *cobra.Command {
	opts := &SetupOptions{}

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Set up a project with hokusai",
		Long: `Set up a project with hokusai.

This command writes, overwriting any previous version:
- ./Dockerfile for the selected framework
- ./hokusai/common.yml, development.yml and test.yml compose documents
- ./hokusai/staging.yml and production.yml deployment manifests
- ./hokusai/config.yml with the project configuration`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seedProjectDefaults(opts.Dir)
			for _, name := range boundSetupFlags {
				_ = viper.BindPFlag(name, cmd.Flags().Lookup(name))
			}
			opts.ProjectName = viper.GetString("project-name")
			opts.AWSAccountID = viper.GetString("aws-account-id")
			opts.AWSECRRegion = viper.GetString("aws-ecr-region")
			opts.Framework = viper.GetString("framework")
			opts.Port = viper.GetInt("port")

			// Prompt only for values nobody supplied
			if !opts.NoInteractive && !cmd.Flags().Changed("framework") && !viper.IsSet("framework") {
				opts.Framework = ""
			}
			return runSetup(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().String("project-name", "", "project name (lowercase with hyphens)")
	cmd.Flags().String("aws-account-id", "", "AWS account id of the image repository (default $AWS_ACCOUNT_ID)")
	cmd.Flags().String("aws-ecr-region", "", "AWS region of the image repository (default from the AWS config chain)")
	cmd.Flags().String("framework", string(types.Rack), fmt.Sprintf("application framework (%s)", strings.Join(profile.Default().Frameworks(), ", ")))
	cmd.Flags().Int("port", 8080, "port the application listens on")
	cmd.Flags().BoolVar(&opts.Addons.Memcached, "with-memcached", false, "add a memcached service")
	cmd.Flags().BoolVar(&opts.Addons.Redis, "with-redis", false, "add a redis service")
	cmd.Flags().BoolVar(&opts.Addons.MongoDB, "with-mongodb", false, "add a mongodb service")
	cmd.Flags().BoolVar(&opts.Addons.Postgres, "with-postgres", false, "add a postgres service")
	cmd.Flags().BoolVar(&opts.Addons.RabbitMQ, "with-rabbitmq", false, "add a rabbitmq service")
	cmd.Flags().StringVar(&opts.Dir, "dir", ".", "project root to write into; its hokusai/config.yml supplies defaults")
	cmd.Flags().BoolVar(&opts.NoInteractive, "no-interactive", false, "disable interactive prompts")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "table", "summary format (table, json)")

	return cmd
}

func runSetup(ctx context.Context, cmd *cobra.Command, opts *SetupOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Output != string(OutputFormatTable) && opts.Output != string(OutputFormatJSON) {
		return fmt.Errorf("invalid output format '%s': must be table or json", opts.Output)
	}

	dir, err := validateAndCleanPath(opts.Dir)
	if err != nil {
		return err
	}

	if err := completeSetupOptions(ctx, dir, opts); err != nil {
		return err
	}

	Debug("Setting up %s (%s, port %d) in %s", opts.ProjectName, opts.Framework, opts.Port, dir)
	if config.Exists(dir) {
		Warn("Overwriting the existing configuration in %s", filepath.Join(dir, config.Dir))
	}

	generated, err := scaffold.Setup(dir, scaffold.Options{
		ProjectName:  opts.ProjectName,
		AWSAccountID: opts.AWSAccountID,
		AWSECRRegion: opts.AWSECRRegion,
		Framework:    opts.Framework,
		Port:         opts.Port,
		Addons:       opts.Addons,
	})
	for _, f := range generated {
		Debug("Wrote %s", f.Path)
	}
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	return writeSetupSummary(cmd, opts, generated)
}

// seedProjectDefaults makes an existing record under dir the fallback for
// values not given by flag, environment or --config
func seedProjectDefaults(dir string) {
	if cfgFile != "" || validateUserPath(dir) != nil {
		return
	}
	existing, err := config.Load(dir)
	if err != nil {
		return
	}
	Debug("Using existing configuration in %s", filepath.Join(dir, config.Dir))

	for key, value := range map[string]string{
		"project-name":   existing.ProjectName,
		"aws-account-id": existing.AWSAccountID,
		"aws-ecr-region": existing.AWSECRRegion,
	} {
		if value != "" {
			viper.SetDefault(key, value)
		}
	}
}

// completeSetupOptions fills missing values from the environment or prompts
func completeSetupOptions(ctx context.Context, dir string, opts *SetupOptions) error {
	if opts.ProjectName == "" {
		if opts.NoInteractive {
			return fmt.Errorf("project name is required")
		}
		if err := promptForProjectName(dir, opts); err != nil {
			return err
		}
	}

	if opts.Framework == "" {
		if opts.NoInteractive {
			opts.Framework = string(types.Rack)
		} else if err := promptForFramework(opts); err != nil {
			return err
		}
	}

	if opts.AWSAccountID == "" {
		opts.AWSAccountID = config.DefaultAccountID()
	}
	if opts.AWSAccountID == "" {
		if opts.NoInteractive {
			return fmt.Errorf("aws account id is required (use --aws-account-id or set %s)", config.AccountIDEnv)
		}
		if err := askOne(&survey.Input{
			Message: "AWS account id:",
			Help:    "The account owning the ECR repository images are pushed to",
		}, &opts.AWSAccountID, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	if opts.AWSECRRegion == "" {
		opts.AWSECRRegion = config.DefaultRegion(ctx)
		Debug("Using region %s", opts.AWSECRRegion)
	}

	if !opts.NoInteractive && !opts.Addons.Any() {
		if err := promptForAddons(opts); err != nil {
			return err
		}
	}
	return nil
}

func promptForProjectName(dir string, opts *SetupOptions) error {
	prompt := &survey.Input{
		Message: "Project name:",
		Help:    "The name of your project (lowercase, alphanumeric, hyphens)",
	}
	if abs, err := filepath.Abs(dir); err == nil {
		prompt.Default = types.NormalizeProjectName(filepath.Base(abs))
	}
	return askOne(prompt, &opts.ProjectName, survey.WithValidator(survey.Required))
}

func promptForFramework(opts *SetupOptions) error {
	prompt := &survey.Select{
		Message: "Choose a framework:",
		Options: profile.Default().Frameworks(),
		Default: string(types.Rack),
	}
	return askOne(prompt, &opts.Framework)
}

func promptForAddons(opts *SetupOptions) error {
	prompt := &survey.MultiSelect{
		Message: "Add backing services:",
		Options: addon.Names(addon.Catalog()),
		Help:    "Each selected service runs next to the application in every environment",
	}

	var selected []string
	if err := askOne(prompt, &selected); err != nil {
		return err
	}
	for _, name := range selected {
		def, ok := addon.Lookup(types.Addon(name))
		if !ok {
			return fmt.Errorf("unknown add-on %q", name)
		}
		if err := opts.Addons.Set(def.Addon, true); err != nil {
			return err
		}
	}
	return nil
}

func writeSetupSummary(cmd *cobra.Command, opts *SetupOptions, generated []scaffold.GeneratedFile) error {
	dw := NewDataWriter(cmd.OutOrStdout(), opts.Output)

	if opts.Output == string(OutputFormatJSON) {
		return dw.WriteStruct(generated)
	}

	Success("Config created in ./%s", config.Dir)

	identity := types.NewProjectIdentity(opts.ProjectName, opts.AWSAccountID, opts.AWSECRRegion)
	repository, _ := oci.RepositoryURI(identity)

	addons := addon.Names(addon.Enabled(addon.Catalog(), opts.Addons))

	if err := NewKeyValueBuilder("Project").
		Add("Name", identity.Name).
		Add("Framework", opts.Framework).
		Add("Port", opts.Port).
		AddIf(len(addons) > 0, "Add-ons", strings.Join(addons, ", ")).
		Add("Repository", repository).
		Write(dw); err != nil {
		return err
	}

	table := NewTableBuilder("FILE", "KIND")
	for _, f := range generated {
		table.AddRow(f.Path, f.Kind)
	}
	return table.Write(dw)
}
