//go:build lockrank

package lockrank

// Enabled is the default of Context.Checked for new contexts.
const Enabled = true
