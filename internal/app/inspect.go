package app

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"monpkg/internal/core"
)

func (s Service) Inspect(req InspectRequest) (InspectResult, error) {
	path := strings.TrimSpace(req.ArtifactPath)
	if path == "" {
		return InspectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("artifact path is required")
	}
	raw, files, err := s.Artifacts.ReadPkgInfo(path)
	if err != nil {
		return InspectResult{}, err
	}
	info, err := core.ParsePkgInfo(raw)
	if err != nil {
		return InspectResult{}, err
	}
	return InspectResult{Info: info, Files: files}, nil
}
