// Package textutil provides small text helpers shared by the catalog and the
// page patcher: slug validation, title casing of page identifiers, and JSX
// attribute escaping.
package textutil
