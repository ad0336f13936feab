// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"errors"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"

	"github.com/qilletni/toolchain/pkg/manifest"
	"github.com/qilletni/toolchain/pkg/qll"
	"github.com/qilletni/toolchain/pkg/qlerr"
	"github.com/qilletni/toolchain/pkg/version"
)

// Id identifies a catalog entry.
type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	DescriptorNotFoundId
	InvalidDescriptorId
	InvalidArchiveId
	FileAccessFailedId
	DependenciesNotSatisfiedId
)

type (
	// MarkdownMsg is Markdown guidance text.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	// Issue is one catalog entry.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the entry for a terminal using the glamour style at stylePath
// ("dark", "light", "notty" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the expected schema.

## Things you can try:
- Check the file for CUE syntax errors
- Compare it with the effective configuration:
~~~
$ qilletni config show
~~~
- Remove unknown keys; only these are accepted:
~~~cue
dependency_path: "~/.qilletni/packages"
index_path:      "~/.qilletni/index.db"
staging_dir:     ""
log: level: "info"
ui: verbose: false
~~~`,
	}

	descriptorNotFoundIssue = &Issue{
		id: DescriptorNotFoundId,
		mdMsg: `
# Required file not found!

Either the package descriptor is missing from the project's source root, or
an archive has no ` + "`qll.info`" + ` metadata entry.

## Things you can try:
- Create ` + "`qilletni-src/qilletni_info.yml`" + ` in your project:
~~~yaml
name: my_library
version: 1.0.0
author: you
dependencies:
  - std:^1.0.0
~~~
- Rebuild archives that were not produced by ` + "`qilletni build`" + `.`,
	}

	invalidDescriptorIssue = &Issue{
		id: InvalidDescriptorId,
		mdMsg: `
# Invalid package descriptor!

## Rules:
- ` + "`name`, `version` and `author`" + ` are required
- ` + "`version`" + ` is exactly ` + "`major.minor.patch`" + `, e.g. ` + "`1.4.0`" + `
- each dependency is ` + "`<name>:<range>`" + `, where the range is ` + "`1.2.3`" + `,
  ` + "`~1.2.3`" + ` or ` + "`^1.2.3`" + `
- ` + "`license`" + ` must be a valid SPDX expression`,
	}

	invalidArchiveIssue = &Issue{
		id: InvalidArchiveId,
		mdMsg: `
# Invalid package archive!

The archive's metadata could not be decoded.

## Things you can try:
- Inspect the archive:
~~~
$ qilletni info path/to/package.qll
~~~
- Rebuild the package with a current toolchain and reinstall it.`,
	}

	fileAccessFailedIssue = &Issue{
		id: FileAccessFailedId,
		mdMsg: `
# File access failed!

A file or archive could not be read or written.

## Things you can try:
- Check permissions on the dependency directory and the build directory
- Make sure the archive is a complete zip file (re-download or rebuild it)
- Check for free disk space in the staging directory`,
	}

	dependenciesNotSatisfiedIssue = &Issue{
		id: DependenciesNotSatisfiedId,
		mdMsg: `
# Dependencies not satisfied!

At least one loaded package requires a package that is missing or whose
version is outside the required range. The table above lists every check.

## Things you can try:
- Install the missing packages into the dependency directory
- Install a version permitted by the range (` + "`^`" + ` same major, ` + "`~`" + ` same minor)
- Use ` + "`qilletni list`" + ` to see what is installed`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():         configLoadFailedIssue,
		descriptorNotFoundIssue.Id():       descriptorNotFoundIssue,
		invalidDescriptorIssue.Id():        invalidDescriptorIssue,
		invalidArchiveIssue.Id():           invalidArchiveIssue,
		fileAccessFailedIssue.Id():         fileAccessFailedIssue,
		dependenciesNotSatisfiedIssue.Id(): dependenciesNotSatisfiedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}

// ForError returns the catalog entry matching the kind of err, or 0 when no
// entry applies. The Kind of the outermost ActionableError takes precedence
// over the kind of its cause.
func ForError(err error) Id {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, qll.ErrInvalidMetadata):
		return InvalidArchiveId
	case errors.Is(err, manifest.ErrInvalidManifest),
		errors.Is(err, version.ErrInvalidVersion),
		errors.Is(err, version.ErrInvalidRange):
		return InvalidDescriptorId
	}

	switch kindOf(err) {
	case qlerr.ErrNotFound:
		return DescriptorNotFoundId
	case qlerr.ErrIO:
		return FileAccessFailedId
	default:
		return 0
	}
}

func kindOf(err error) error {
	var ae *ActionableError
	if errors.As(err, &ae) && ae.Kind != nil {
		return ae.Kind
	}
	return qlerr.Kind(err)
}
