package app

import (
	"time"

	"monpkg/internal/adapters"
	"monpkg/internal/ports"
)

type Service struct {
	Descriptors ports.DescriptorPort
	Installer   ports.InstallerPort
	Staging     ports.StagingPort
	Archives    ports.ArchiveWriterPort
	Artifacts   ports.ArchiveReaderPort
	Clock       func() time.Time
}

// NewService wires the default adapters. python selects the interpreter
// used to drive the payload installer; empty means the adapter default.
func NewService(python string) Service {
	return Service{
		Descriptors: adapters.NewDescriptorFileAdapter(),
		Installer:   adapters.NewSetupInstallerAdapter(python),
		Staging:     adapters.NewStagingAdapter(),
		Archives:    adapters.NewArchiveWriterAdapter(),
		Artifacts:   adapters.NewArchiveReaderAdapter(),
		Clock:       time.Now,
	}
}
