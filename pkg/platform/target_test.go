// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"testing"

	"github.com/lumenlang/lumen/pkg/lumfile"
)

func TestParseFamily(t *testing.T) {
	t.Parallel()
	if _, err := ParseFamily("unix"); err != nil {
		t.Errorf("unix should parse: %v", err)
	}
	if _, err := ParseFamily("windows"); err != nil {
		t.Errorf("windows should parse: %v", err)
	}
	if _, err := ParseFamily("darwin"); err == nil {
		t.Error("darwin is not a family and should be rejected")
	}
}

func TestHostFamily_IsAlwaysValid(t *testing.T) {
	t.Parallel()
	if _, err := ParseFamily(string(HostFamily())); err != nil {
		t.Errorf("host family %q is not in the closed set: %v", HostFamily(), err)
	}
}

func TestTarget_Eval(t *testing.T) {
	t.Parallel()

	unix := NewTarget(FamilyUnix, []string{"extra"})
	windowsTest := NewTarget(FamilyWindows, nil).WithTest()

	tests := []struct {
		name   string
		target Target
		expr   lumfile.CfgExpr
		want   bool
	}{
		{"nil is unconditional", unix, nil, true},
		{"unix flag on unix", unix, &lumfile.CfgFlag{Name: "unix"}, true},
		{"windows flag on unix", unix, &lumfile.CfgFlag{Name: "windows"}, false},
		{"windows flag on windows", windowsTest, &lumfile.CfgFlag{Name: "windows"}, true},
		{"test flag outside test build", unix, &lumfile.CfgFlag{Name: "test"}, false},
		{"test flag in test build", windowsTest, &lumfile.CfgFlag{Name: "test"}, true},
		{"enabled feature", unix, &lumfile.CfgFeature{Name: "extra"}, true},
		{"missing feature", unix, &lumfile.CfgFeature{Name: "other"}, false},
		{"not", unix, &lumfile.CfgNot{X: &lumfile.CfgFlag{Name: "windows"}}, true},
		{
			"any short-circuits",
			unix,
			&lumfile.CfgAny{Exprs: []lumfile.CfgExpr{
				&lumfile.CfgFlag{Name: "windows"},
				&lumfile.CfgFeature{Name: "extra"},
			}},
			true,
		},
		{
			"all requires every operand",
			unix,
			&lumfile.CfgAll{Exprs: []lumfile.CfgExpr{
				&lumfile.CfgFlag{Name: "unix"},
				&lumfile.CfgFeature{Name: "other"},
			}},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.target.Eval(tt.expr); got != tt.want {
				t.Errorf("Eval(%v) on %s = %v, want %v", tt.expr, tt.target, got, tt.want)
			}
		})
	}
}

func TestTarget_String(t *testing.T) {
	t.Parallel()
	target := NewTarget(FamilyUnix, []string{"b", "a"}).WithTest()
	if got := target.String(); got != "unix +a +b (test)" {
		t.Errorf("unexpected rendering: %q", got)
	}
}
