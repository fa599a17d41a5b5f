// Package fault defines the typed error taxonomy shared by all tracker
// operations.
//
// Every failing core operation returns a *fault.Error carrying the failure
// Kind, the attempted operation name, and the load identifier involved. This
// keeps user-visible failures self-describing and lets the CLI map error
// categories to distinct exit codes.
//
// # Kinds
//
//   - validation: malformed manifest or listing input
//   - not_found: unknown load_id
//   - conflict: duplicate manifest/job creation
//   - illegal_transition: job status transition not permitted
//   - transfer: external transfer collaborator failed
//   - partial_listing: collector interrupted mid-enumeration
//   - internal: everything else
//
// # Usage
//
//	if err := store.Create(ctx, loadID, entries); err != nil {
//	    if fault.IsKind(err, fault.KindConflict) {
//	        // manifest already exists
//	    }
//	}
package fault
