// Package object provides the built-in rendering objects.
//
// [Register] adds them to a [typoscript.Registry] under the identifiers
// Text, Value, Array, Collection and Template. A node of type
// "Vendor.Site:Text" resolves to Text through the registry's naming
// convention.
package object
