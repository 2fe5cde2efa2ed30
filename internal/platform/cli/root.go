package cli

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nickalie/crawlship/internal/config"
)

// NewRootCommand builds the crawlship command with all deployment flags.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "crawlship [TARGET]",
		Short: "Deploy crawler projects to job servers",
		Long: `crawlship packages a crawler project into a distributable archive and
uploads it to one or more remote job servers, then reports the server's
acceptance or error. Targets are read from the project configuration file
(crawlship.cfg by default).`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Target = config.DefaultTargetName
			if len(args) > 0 {
				opts.Target = args[0]
			}
			return NewApp().Run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.Project, "project", "p", "", "the project name in the target")
	flags.StringVarP(&opts.Version, "version", "v", "", "the version to deploy, defaults to the target's version policy")
	flags.BoolVarP(&opts.ListTargets, "list-targets", "l", false, "list available targets")
	flags.StringVarP(&opts.ListProjects, "list-projects", "L", "", "list available projects in the given target")
	flags.BoolVarP(&opts.DeployAll, "deploy-all-targets", "a", false, "deploy to all configured targets")
	flags.BoolVarP(&opts.Debug, "debug", "d", false, "debug mode, do not remove the build dir")
	flags.StringVar(&opts.EggPath, "egg", "", "use the given egg, instead of building it")
	flags.StringVar(&opts.BuildEgg, "build-egg", "", "only build the egg, don't deploy it")
	flags.BoolVar(&opts.IncludeDeps, "include-dependencies", false, "include dependencies from requirements.txt in the egg")
	flags.StringVar(&opts.ConfigPath, "config", "", "path to the project configuration file")
	flags.StringArrayVar(&opts.EnvPaths, "env", nil, "environment files to load before reading the configuration")
	flags.StringVar(&opts.VaultPassword, "vault-password", "", "password for Ansible Vault environment files")

	return cmd
}

// Execute runs the root command and maps the outcome to a process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
