// Package driver models delivery drivers and their assignment ledger.
// A driver is a platform customer specialized via the "driver" custom type:
// the shift flag (Working), the dispatch flag (Dispatched), and the
// accumulated delivery order references all live in the customer's custom
// fields.
//
// Key business rules:
//   - Dispatched implies a non-empty delivery list at the moment it was set
//   - The delivery list is append-only from this core's perspective; returns
//     keep the full history for audit
//   - Working is shift management and is toggled outside this core
package driver
