package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"monpkg/internal/app"
)

type buildOptions struct {
	Descriptor  string
	SourceDir   string
	StagingRoot string
	Python      string
}

func newBuildCommand() *cobra.Command {
	opts := buildOptions{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run the package step into a staging root",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Descriptor, "descriptor", "", "Descriptor file path")
	cmd.Flags().StringVar(&opts.SourceDir, "source-dir", "", "Payload source tree (overrides the descriptor)")
	cmd.Flags().StringVar(&opts.StagingRoot, "staging-root", "", "Staging root to install into")
	cmd.Flags().StringVar(&opts.Python, "python", "", "Interpreter used to drive the payload installer")
	_ = viper.BindPFlag("descriptor", cmd.Flags().Lookup("descriptor"))
	_ = viper.BindPFlag("source_dir", cmd.Flags().Lookup("source-dir"))
	_ = viper.BindPFlag("staging_root", cmd.Flags().Lookup("staging-root"))
	_ = viper.BindPFlag("python", cmd.Flags().Lookup("python"))
	return cmd
}

func runBuild(ctx context.Context, cmd *cobra.Command, opts buildOptions) error {
	service := newAppService()
	result, err := service.Build(ctx, app.BuildRequest{
		DescriptorPath: resolveString(cmd, opts.Descriptor, "descriptor", "descriptor"),
		SourceDir:      resolveString(cmd, opts.SourceDir, "source_dir", "source-dir"),
		StagingRoot:    resolveString(cmd, opts.StagingRoot, "staging_root", "staging-root"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("staged %s %s into %s\n", result.Name, result.Version, result.StagingRoot)
	return nil
}
