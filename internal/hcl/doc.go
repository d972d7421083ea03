// Package hcl provides the Terraform implementation of config.Loader. It
// parses .tf files, resolves what it statically can (variable defaults,
// locals, path.*, a set of pure functions, and Akamai rules templates), and
// renders every resource block as a source.Document entry. Expressions that
// cannot be resolved without a Terraform run are kept as "${...}" strings.
package hcl
