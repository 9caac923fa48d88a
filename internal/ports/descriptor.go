package ports

import "monpkg/internal/types"

type DescriptorPort interface {
	Load(path string) (types.Descriptor, error)
}
