// Package secret resolves credentials referenced from configuration.
//
// It supports:
//   - Strict environment expansion (see ExpandEnvStrict)
//   - Pluggable secret providers (see Provider + Registry), with built-in
//     "env" and "file" providers
//   - Resolving secret references in configuration values (see Resolver)
//
// References use the prefix "secretref:":
//   - Full value:  secretref:file:/run/secrets/api_token
//   - Inline use:  Bearer secretref:env:API_TOKEN
package secret
