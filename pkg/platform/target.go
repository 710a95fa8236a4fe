// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/lumenlang/lumen/pkg/lumfile"
)

// Family is a platform family token. The set is closed: every target is
// exactly one of unix or windows.
type Family string

const (
	// FamilyUnix covers Linux, macOS, and the BSDs.
	FamilyUnix Family = "unix"
	// FamilyWindows covers Windows.
	FamilyWindows Family = "windows"
)

// Families lists every valid family token.
func Families() []Family {
	return []Family{FamilyUnix, FamilyWindows}
}

// ParseFamily validates a user-supplied family token.
func ParseFamily(s string) (Family, error) {
	switch Family(s) {
	case FamilyUnix, FamilyWindows:
		return Family(s), nil
	default:
		return "", fmt.Errorf("unknown platform family %q (expected unix or windows)", s)
	}
}

// HostFamily maps the host operating system to its family.
func HostFamily() Family {
	if runtime.GOOS == Windows {
		return FamilyWindows
	}
	return FamilyUnix
}

// Target is the build target cfg predicates evaluate against.
type Target struct {
	Family   Family
	Features map[string]bool
	// Test marks a test build, enabling #[cfg(test)] declarations.
	Test bool
}

// NewTarget builds a target for the given family and feature names.
func NewTarget(family Family, features []string) Target {
	set := make(map[string]bool, len(features))
	for _, f := range features {
		set[f] = true
	}
	return Target{Family: family, Features: set}
}

// Host returns the default target: host family, no features, not a test
// build.
func Host() Target {
	return NewTarget(HostFamily(), nil)
}

// WithTest returns a copy of the target with the test flag set.
func (t Target) WithTest() Target {
	t.Test = true
	return t
}

// FeatureNames returns the enabled features in sorted order.
func (t Target) FeatureNames() []string {
	names := make([]string, 0, len(t.Features))
	for name := range t.Features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String renders the target for logs and diagnostics.
func (t Target) String() string {
	s := string(t.Family)
	if len(t.Features) > 0 {
		s += " +" + strings.Join(t.FeatureNames(), " +")
	}
	if t.Test {
		s += " (test)"
	}
	return s
}

// Eval evaluates a cfg predicate against the target. A nil expression is
// unconditional and evaluates true.
func (t Target) Eval(expr lumfile.CfgExpr) bool {
	switch e := expr.(type) {
	case nil:
		return true
	case *lumfile.CfgFlag:
		switch e.Name {
		case lumfile.CfgUnix:
			return t.Family == FamilyUnix
		case lumfile.CfgWindows:
			return t.Family == FamilyWindows
		case lumfile.CfgTest:
			return t.Test
		default:
			// the parser rejects unknown flags; treat any stray as false
			return false
		}
	case *lumfile.CfgFeature:
		return t.Features[e.Name]
	case *lumfile.CfgNot:
		return !t.Eval(e.X)
	case *lumfile.CfgAny:
		for _, inner := range e.Exprs {
			if t.Eval(inner) {
				return true
			}
		}
		return false
	case *lumfile.CfgAll:
		for _, inner := range e.Exprs {
			if !t.Eval(inner) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
