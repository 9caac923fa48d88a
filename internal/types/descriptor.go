package types

type Metadata struct {
	Name          string   `yaml:"name"`
	Version       string   `yaml:"version,omitempty"`
	Release       int      `yaml:"release"`
	Description   string   `yaml:"description,omitempty"`
	Architectures []string `yaml:"architectures"`
	URL           string   `yaml:"url,omitempty"`
	License       string   `yaml:"license"`
	Maintainer    string   `yaml:"maintainer,omitempty"`
}

// InstallStep describes how the payload source tree installs itself into
// the staging root. The source tree owns its own install procedure; the
// step only points at it and forwards the optimize level.
type InstallStep struct {
	SourceDir string        `yaml:"source_dir"`
	Installer InstallerKind `yaml:"installer"`

	// Optimize is the compilation optimization level forwarded to the
	// installer. Nil means the default level of 1.
	Optimize *int `yaml:"optimize,omitempty"`
}

const DefaultOptimize = 1

// Level returns the effective optimize level.
func (s InstallStep) Level() int {
	if s.Optimize == nil {
		return DefaultOptimize
	}
	return *s.Optimize
}

// ServiceScript is an init script copied into the service-control
// directory under the staging root.
type ServiceScript struct {
	Source string `yaml:"source"`

	// Name overrides the installed file name. Empty means the base name
	// of Source.
	Name string `yaml:"name,omitempty"`
}

type Descriptor struct {
	APIVersion        string          `yaml:"api_version"`
	Kind              DescriptorKind  `yaml:"kind"`
	Metadata          Metadata        `yaml:"metadata"`
	Dependencies      []string        `yaml:"dependencies,omitempty"`
	BuildDependencies []string        `yaml:"build_dependencies,omitempty"`
	Backup            []string        `yaml:"backup,omitempty"`
	Install           InstallStep     `yaml:"install"`
	Services          []ServiceScript `yaml:"services,omitempty"`
}
