// SPDX-License-Identifier: MPL-2.0

// Package platform models Lumen build targets and evaluates #[cfg(...)]
// predicates against them.
//
// A target is a platform family (exactly one of unix or windows), a set
// of enabled features, and a test-build flag. The family defaults from
// the host operating system and can be overridden per invocation, which
// is what makes the conditional-compilation examples reproducible on any
// host.
package platform
