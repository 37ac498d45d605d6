// Package gitstore wraps go-git with the operational policy gfv needs from
// its versioned store.
//
// A vault repository is only ever advanced linearly: commits are made with a
// fixed synthetic identity, pulls are fast-forward only (diverged histories
// fail with a conflict error and are left to the operator), and pushes go to
// the identically named branch on "origin".
//
// Network operations authenticate through an explicit AuthPolicy, an ordered
// list of credential sources tried one after another until one succeeds.
package gitstore
