package stdncmat

import (
	"strings"
	"sync"

	"github.com/vmishra-uu/ncrystal/textsource"
)

// virtualFiles is the process-wide in-memory data registry spec.md §4.3
// refers to ("the source is the file name or registered in-memory
// key"): textsource deliberately leaves data-source discovery to an
// external collaborator (textsource.go's package doc), and this is it.
var (
	virtualMu    sync.RWMutex
	virtualFiles = map[string]string{}
)

// RegisterData makes content available as the in-memory source name,
// so a MatCfg can later name it as its data-file-spec (e.g.
// "name;temp=200K") without touching the filesystem. Registering the
// same name again replaces the previous content.
func RegisterData(name, content string) {
	virtualMu.Lock()
	defer virtualMu.Unlock()
	virtualFiles[name] = content
}

// UnregisterData removes a previously registered in-memory source.
func UnregisterData(name string) {
	virtualMu.Lock()
	defer virtualMu.Unlock()
	delete(virtualFiles, name)
}

func lookupVirtual(name string) (string, bool) {
	virtualMu.RLock()
	defer virtualMu.RUnlock()
	content, ok := virtualFiles[name]
	return content, ok
}

// openSource resolves spec into a textsource.Source: a registered
// virtual name takes precedence over a same-named on-disk file, since
// a caller that registered data under a name clearly means to use it.
func openSource(spec string) (textsource.Source, error) {
	if content, ok := lookupVirtual(spec); ok {
		return textsource.NewInMemory(spec, content), nil
	}
	return textsource.NewFile(spec)
}

// rankForSource scores spec by whether it looks like NCMAT data this
// factory can handle: a recognized ".ncmat" extension ranks highest, a
// registered virtual entry still ranks (its format is unknown until
// parsed, so it is given a chance), and anything else ranks low but
// nonzero, since NCMAT is this module's only built-in format and
// letting ncmat.Parse itself reject bad input gives a clearer error
// than a Rank of zero would.
func rankForSource(spec string) uint {
	name := spec
	if idx := strings.IndexByte(name, ';'); idx >= 0 {
		name = name[:idx]
	}
	if strings.HasSuffix(strings.ToLower(name), ".ncmat") {
		return 100
	}
	if _, ok := lookupVirtual(name); ok {
		return 80
	}
	return 10
}
