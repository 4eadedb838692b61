// Package errors provides structured error handling for the pokemon-agent-system.
//
// It offers:
//   - Structured errors with codes, messages, and metadata
//   - Error context preservation through wrapping
//   - Code-to-HTTP-status mapping for the API layer
//   - Validation error helpers for component configs
//   - Type-safe error checking
//
// # Basic Usage
//
// Creating errors:
//
//	err := errors.NotFound("pokemon not found")
//	err := errors.InvalidArgumentf("invalid capability tag: %s", tag)
//
// Adding metadata:
//
//	err := errors.NotFound("pokemon not found").
//	    WithMeta("pokemon_name", name)
//
// Wrapping errors:
//
//	if err := repo.Get(ctx, name); err != nil {
//	    return errors.Wrap(err, "failed to get pokemon record")
//	}
//
// Changing error semantics:
//
//	if err := client.Lookup(ctx, name); err != nil {
//	    if isTimeout(err) {
//	        return errors.WrapWithCode(err, errors.CodeUnavailable, "pokeapi unreachable")
//	    }
//	    return errors.Wrap(err, "pokeapi lookup failed")
//	}
//
// # Error Checking
//
//	if errors.IsNotFound(err) {
//	    // negative-cache the name
//	}
//
//	code := errors.GetCode(err)
//	message := errors.GetMessage(err)
//
// # Validation Errors
//
//	vb := errors.NewValidationBuilder()
//	if cfg.Oracle == nil {
//	    vb.RequiredField("Oracle")
//	}
//	if err := vb.Build(); err != nil {
//	    return err
//	}
//
// # Layer-Specific Guidelines
//
// Repository and client layer:
//   - Return domain-specific errors (NotFound for unknown names,
//     Unavailable for upstream outages)
//   - Include the looked-up name in metadata
//
// Supervisor layer:
//   - Validate config and return InvalidArgument errors
//   - Abort runs only with Unavailable (oracle exhaustion), Internal
//     (unknown capability), or DeadlineExceeded
//   - Capability failures become conversation artifacts, not errors
//
// HTTP handler layer:
//   - Map codes to status via Code.HTTPStatus
//   - Extract user-facing messages with GetMessage
package errors
