package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"monpkg/internal/adapters"
	"monpkg/internal/core"
	"monpkg/internal/policies"
	"monpkg/internal/ports"
)

// Archive turns a staged tree into a compressed package artifact with a
// generated .PKGINFO, and optionally a detached signature next to it.
func (s Service) Archive(ctx context.Context, req ArchiveRequest) (ArchiveResult, error) {
	path := strings.TrimSpace(req.DescriptorPath)
	if path == "" {
		return ArchiveResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("descriptor path is required")
	}
	desc, err := s.Descriptors.Load(path)
	if err != nil {
		return ArchiveResult{}, err
	}
	compiler := core.NewDescriptorCompiler()
	if err := compiler.ValidateDescriptor(ctx, desc); err != nil {
		return ArchiveResult{}, err
	}
	deps, err := compiler.CompileDependencies(desc)
	if err != nil {
		return ArchiveResult{}, err
	}
	policy, err := policies.NewStagingPolicy(req.StagingRoot)
	if err != nil {
		return ArchiveResult{}, err
	}
	if _, err := os.Stat(policy.Root); err != nil {
		return ArchiveResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("staging root does not exist").
			WithCause(err)
	}
	compression := req.Compression
	if compression == "" {
		compression = adapters.DefaultCompression
	}
	ext, err := adapters.ArchiveExtension(compression)
	if err != nil {
		return ArchiveResult{}, err
	}

	version := desc.Metadata.Version
	if version == "" {
		version = strings.TrimSpace(req.Version)
		if version == "" {
			version = core.DateVersion(s.Clock())
		} else if !core.IsDateVersion(version) {
			return ArchiveResult{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("version override %s is not an 8-digit date", version))
		}
	}
	size, err := s.Staging.TreeSize(policy.Root)
	if err != nil {
		return ArchiveResult{}, err
	}
	buildTime := s.Clock()
	pkginfo := core.RenderPkgInfo(desc, version, deps, targetArch(desc.Metadata.Architectures), buildTime, size)

	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return ArchiveResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	name := fmt.Sprintf("%s-%s-%d-%s.%s",
		desc.Metadata.Name, version, desc.Metadata.Release,
		targetArch(desc.Metadata.Architectures), ext)
	dest := filepath.Join(outputDir, name)

	info, err := s.Archives.Write(policy.Root, pkginfo, dest, compression, buildTime)
	if err != nil {
		return ArchiveResult{}, err
	}

	if strings.TrimSpace(req.SignKey) != "" {
		signature, err := signArtifact(info.Path, req.SignKey, req.SignPassphrase)
		if err != nil {
			return ArchiveResult{}, err
		}
		info.Signature = signature
	}

	log.Debug().
		Str("artifact", info.Path).
		Int64("size", info.Size).
		Int("files", info.Files).
		Msg("artifact written")
	return ArchiveResult{Artifact: info}, nil
}

func signArtifact(artifactPath string, keyPath string, passphrase string) (string, error) {
	var signer ports.SignerPort
	signer, err := adapters.NewGPGSigner(keyPath, passphrase)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(artifactPath)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read artifact for signing").
			WithCause(err)
	}
	signature, err := signer.SignDetached(data)
	if err != nil {
		return "", err
	}
	sigPath := artifactPath + ".sig"
	if err := os.WriteFile(sigPath, signature, 0o644); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write signature").
			WithCause(err)
	}
	return sigPath, nil
}

// targetArch picks the artifact architecture: "any" when listed,
// otherwise the first declared architecture.
func targetArch(architectures []string) string {
	for _, arch := range architectures {
		if arch == "any" {
			return arch
		}
	}
	if len(architectures) > 0 {
		return architectures[0]
	}
	return "any"
}
