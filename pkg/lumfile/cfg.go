// SPDX-License-Identifier: MPL-2.0

package lumfile

import "strings"

type (
	// CfgExpr is a conditional-compilation predicate from a #[cfg(...)]
	// attribute. Evaluation against a build target lives in pkg/platform;
	// this package only carries the shape.
	CfgExpr interface {
		String() string
		cfg()
	}

	// CfgFlag is a bare predicate: unix, windows, or test.
	CfgFlag struct {
		Name string
	}

	// CfgFeature is a feature = "name" predicate.
	CfgFeature struct {
		Name string
	}

	// CfgNot negates its operand.
	CfgNot struct {
		X CfgExpr
	}

	// CfgAny is true when at least one operand is true.
	CfgAny struct {
		Exprs []CfgExpr
	}

	// CfgAll is true when every operand is true.
	CfgAll struct {
		Exprs []CfgExpr
	}
)

// Flag names accepted by CfgFlag.
const (
	CfgUnix    = "unix"
	CfgWindows = "windows"
	CfgTest    = "test"
)

func (c *CfgFlag) cfg()    {}
func (c *CfgFeature) cfg() {}
func (c *CfgNot) cfg()     {}
func (c *CfgAny) cfg()     {}
func (c *CfgAll) cfg()     {}

func (c *CfgFlag) String() string { return c.Name }

func (c *CfgFeature) String() string { return `feature = "` + c.Name + `"` }

func (c *CfgNot) String() string { return "not(" + c.X.String() + ")" }

func (c *CfgAny) String() string { return "any(" + joinCfg(c.Exprs) + ")" }

func (c *CfgAll) String() string { return "all(" + joinCfg(c.Exprs) + ")" }

func joinCfg(exprs []CfgExpr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
