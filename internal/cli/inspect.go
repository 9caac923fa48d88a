package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"monpkg/internal/app"
)

type inspectOptions struct {
	Artifact string
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show metadata of a package artifact",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Artifact, "artifact", "", "Artifact file path")
	_ = viper.BindPFlag("artifact", cmd.Flags().Lookup("artifact"))
	return cmd
}

func runInspect(cmd *cobra.Command, opts inspectOptions) error {
	service := newAppService()
	result, err := service.Inspect(app.InspectRequest{
		ArtifactPath: resolveString(cmd, opts.Artifact, "artifact", "artifact"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("%s %s (%s) files=%d\n", result.Info.Name, result.Info.Version, result.Info.Architecture, result.Files)
	for _, dep := range result.Info.Dependencies {
		fmt.Printf("  depend: %s\n", dep)
	}
	return nil
}
