package core

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"monpkg/internal/shared"
	"monpkg/internal/types"
)

// RenderPkgInfo renders the .PKGINFO metadata embedded in a package
// artifact, using the pacman "key = value" format with one depend and
// backup line per entry.
func RenderPkgInfo(desc types.Descriptor, version string, deps []types.Dependency, arch string, buildTime time.Time, size int64) []byte {
	var buf bytes.Buffer
	writeField := func(key string, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		fmt.Fprintf(&buf, "%s = %s\n", key, value)
	}
	writeField("pkgname", desc.Metadata.Name)
	writeField("pkgver", fmt.Sprintf("%s-%d", version, desc.Metadata.Release))
	writeField("pkgdesc", desc.Metadata.Description)
	writeField("url", desc.Metadata.URL)
	writeField("license", desc.Metadata.License)
	writeField("arch", arch)
	writeField("packager", desc.Metadata.Maintainer)
	writeField("builddate", strconv.FormatInt(buildTime.Unix(), 10))
	writeField("size", strconv.FormatInt(size, 10))
	for _, dep := range deps {
		writeField("depend", formatDepend(dep))
	}
	for _, entry := range desc.Backup {
		writeField("backup", entry)
	}
	return buf.Bytes()
}

// formatDepend renders a dependency back into its constraint-string
// form. Python dependencies use their normalized distribution name.
func formatDepend(dep types.Dependency) string {
	name := dep.Name
	if dep.Type == types.DependencyTypePython {
		name = shared.NormalizeName(name)
	}
	if len(dep.Constraints) == 0 {
		return name
	}
	constraint := dep.Constraints[0]
	return fmt.Sprintf("%s%s%s", name, constraint.Op, constraint.Version)
}

// ParsePkgInfo decodes .PKGINFO content. Unknown keys are ignored so
// artifacts produced by other tools remain readable.
func ParsePkgInfo(data []byte) (types.PkgInfo, error) {
	var info types.PkgInfo
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		switch key {
		case "pkgname":
			info.Name = value
		case "pkgver":
			info.Version = value
		case "pkgdesc":
			info.Description = value
		case "url":
			info.URL = value
		case "license":
			info.License = value
		case "arch":
			info.Architecture = value
		case "packager":
			info.Packager = value
		case "builddate":
			info.BuildDate = value
		case "size":
			size, err := strconv.ParseInt(value, 10, 64)
			if err == nil {
				info.Size = size
			}
		case "depend":
			info.Dependencies = append(info.Dependencies, value)
		case "backup":
			info.Backup = append(info.Backup, value)
		}
	}
	if err := scanner.Err(); err != nil {
		return types.PkgInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to scan .PKGINFO").
			WithCause(err)
	}
	if info.Name == "" {
		return types.PkgInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(".PKGINFO has no pkgname")
	}
	return info, nil
}
