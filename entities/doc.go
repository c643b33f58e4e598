// Package entities materializes RDF resources as lazy entity proxies with
// change tracking.
//
// A Context owns the identity map, the mapping and ontology configuration,
// and an EntityStore over a quad store adapter. Proxies created through one
// context are cheap handles: no store access happens until a property is
// read, and all proxies for one id share the same record, so they observe
// each other's uncommitted writes.
//
//	ctx, _ := entities.NewContext(memorystore.New(),
//	    entities.WithOntologies(provider),
//	    entities.WithMappings(repo))
//
//	person, _ := ctx.CreateTyped(rdf.NewEntityID("http://example.org/alice"), "Person")
//	name, _ := person.Get(context.Background(), "Name")
//	_ = person.Set(context.Background(), "Name", "Alice")
//	_ = ctx.Commit(context.Background())
//
// Reads resolve member names in precedence order: bound mapping property,
// registered ontology prefix (continue through Ontology), then unique
// unprefixed term search. Writes stage assertions and retractions in the
// entity store; Commit flushes all staged changes through the adapter in
// one batch and keeps them intact on failure so the commit can be retried.
package entities
