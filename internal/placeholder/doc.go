// Package placeholder defines the placeholder tokens a template uses and
// resolves user-supplied values for them. Resolution fills defaults,
// normalizes values, and validates each one against its format before any
// output is written.
package placeholder
