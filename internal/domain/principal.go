package domain

// PrincipalKind discriminates the two disjoint token namespaces. An admin
// token never satisfies a report-only check and vice versa.
type PrincipalKind string

const (
	PrincipalAdmin  PrincipalKind = "ADMIN"
	PrincipalReport PrincipalKind = "REPORT"
)
