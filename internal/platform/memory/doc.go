// Package memory provides mutex-guarded, in-process implementations of the
// store interfaces. Entities are cloned on the way in and out so callers
// never share state with the store. It backs the development server and the
// service and API tests.
package memory
