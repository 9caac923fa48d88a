package app

import "monpkg/internal/types"

type ValidateRequest struct {
	DescriptorPath string

	// Installed holds name=version pairs of packages known to be
	// installed; dependencies matching a name are checked against
	// their constraints.
	Installed []string
}

type ValidateResult struct {
	Name         string
	Version      string
	Dependencies int
}

type BuildRequest struct {
	DescriptorPath string
	SourceDir      string
	StagingRoot    string
}

type BuildResult struct {
	Name        string
	Version     string
	StagingRoot string
	Scripts     []string
}

type ArchiveRequest struct {
	DescriptorPath string
	StagingRoot    string
	OutputDir      string
	Compression    types.Compression
	SignKey        string
	SignPassphrase string

	// Version pins the artifact version to the one a prior build
	// stamped, so a build/archive pair spanning midnight stays
	// consistent. Ignored when the descriptor carries a version.
	Version string
}

type ArchiveResult struct {
	Artifact types.ArchiveInfo
}

type InspectRequest struct {
	ArtifactPath string
}

type InspectResult struct {
	Info  types.PkgInfo
	Files int
}
