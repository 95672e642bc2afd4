// Package authz holds the pure authorization rules applied to a verified
// Principal: the role gate, the resource ownership gate and tenant scoping for
// listings. Nothing here touches the network or the store; callers resolve the
// resource first and hand its owning tenant to CheckOwnership, so a missing
// resource is always reported as not found before any ownership decision.
package authz
