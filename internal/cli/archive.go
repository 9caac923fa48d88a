package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"monpkg/internal/app"
	"monpkg/internal/types"
)

type archiveOptions struct {
	Descriptor     string
	StagingRoot    string
	OutputDir      string
	Compression    string
	SignKey        string
	SignPassphrase string
	PackageVersion string
}

func newArchiveCommand() *cobra.Command {
	opts := archiveOptions{}
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Archive a staged tree into a package artifact",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runArchive(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Descriptor, "descriptor", "", "Descriptor file path")
	cmd.Flags().StringVar(&opts.StagingRoot, "staging-root", "", "Staging root produced by build")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "out", "Output directory")
	cmd.Flags().StringVar(&opts.Compression, "compression", "zstd", "Artifact compression (zstd, xz, gzip)")
	cmd.Flags().StringVar(&opts.SignKey, "sign-key", "", "Armored private key for detached signing")
	cmd.Flags().StringVar(&opts.SignPassphrase, "sign-passphrase", "", "Passphrase of the signing key")
	cmd.Flags().StringVar(&opts.PackageVersion, "package-version", "", "Pin the artifact version stamped by a prior build")
	_ = viper.BindPFlag("descriptor", cmd.Flags().Lookup("descriptor"))
	_ = viper.BindPFlag("staging_root", cmd.Flags().Lookup("staging-root"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("compression", cmd.Flags().Lookup("compression"))
	_ = viper.BindPFlag("sign_key", cmd.Flags().Lookup("sign-key"))
	_ = viper.BindPFlag("sign_passphrase", cmd.Flags().Lookup("sign-passphrase"))
	_ = viper.BindPFlag("package_version", cmd.Flags().Lookup("package-version"))
	return cmd
}

func runArchive(ctx context.Context, cmd *cobra.Command, opts archiveOptions) error {
	service := newAppService()
	result, err := service.Archive(ctx, app.ArchiveRequest{
		DescriptorPath: resolveString(cmd, opts.Descriptor, "descriptor", "descriptor"),
		StagingRoot:    resolveString(cmd, opts.StagingRoot, "staging_root", "staging-root"),
		OutputDir:      resolveString(cmd, opts.OutputDir, "output", "output"),
		Compression:    types.Compression(resolveString(cmd, opts.Compression, "compression", "compression")),
		SignKey:        resolveString(cmd, opts.SignKey, "sign_key", "sign-key"),
		SignPassphrase: resolveString(cmd, opts.SignPassphrase, "sign_passphrase", "sign-passphrase"),
		Version:        resolveString(cmd, opts.PackageVersion, "package_version", "package-version"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("artifact: %s sha256=%s\n", result.Artifact.Path, result.Artifact.SHA256)
	return nil
}
