// Package auth implements the authentication, session, and permission core
// of the xolva dashboard prototype. The rest of the dashboard (kanban board,
// search, profile forms) is a consumer of this package and talks to it only
// through Manager operations and state subscriptions.
//
// Session lifecycle:
//   - Manager holds the single authoritative AuthState (anonymous,
//     authenticating, authenticated, failed) and applies every transition
//     through a pure reducer, one at a time. Subscribers receive a full
//     state snapshot after each change.
//   - Auther validates credentials against a seeded CredentialStore with a
//     simulated network delay and mints a mock JWT per login. The stored
//     secret never leaves the store boundary.
//   - SessionMonitor watches the authenticated session, raises a single
//     expiring-soon advisory inside the warning window, and forces logout
//     at end of life. Renew moves the expiry baseline without replacing
//     the token.
//
// Activity sinks:
//   - ActivitySink is a best-effort audit emitter used by Auther, Manager,
//     and SessionMonitor for login, logout, profile, and session events.
//     Sink errors are logged and never block a transition.
//
// Permissions:
//   - Permission helpers are pure functions over a User snapshot: grant
//     lookups are default-deny, role checks ride a fixed hierarchy, and
//     task edit/delete policies mirror the dashboard rules (deletion always
//     requires the explicit grant, even for privileged roles).
package auth
