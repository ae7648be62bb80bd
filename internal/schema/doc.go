// Package schema generates client-side object APIs from a QIX definition.
//
// A Definition lists, per engine object type, the methods the type supports
// together with their in and out parameters. Generate returns a Constructor
// for a type name; the session uses it to create the ObjectAPI bound to each
// new engine handle:
//
//	def, err := schema.Default(log)
//	newDoc := def.Generate("Doc")
//	doc := newDoc(session, 1, "sales.qvf", false, "")
//	layout := doc.Call(ctx, "GetAppLayout")
//
// Method arguments are validated against a JSON Schema built from the
// method's in parameters before the request is sent. Types missing from the
// definition get an untyped API that forwards any method unchecked.
package schema
