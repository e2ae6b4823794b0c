/*
Package palette provides the catalog of node templates for a node-based flow
editor. A template describes one kind of node a user can place on the
canvas: its input and output port counts, a default label, and an ordered
list of typed, configurable params.

Key features:
  - Immutable, ordered registries that are safe for concurrent reads
  - Tagged-variant params that keep type and value consistent
  - Load-time validation that names the offending template and field
  - Node instantiation that never aliases catalog data

Basic usage:

	// Look up a built-in template
	tpl, ok := palette.GetTemplate("data_sink")
	if !ok {
		return palette.ErrTemplateNotFound
	}

	// Create a node and configure it
	node := palette.Instantiate(tpl)
	err := node.Set("Format", "csv")

Extending the catalog:

	catalog := palette.NewCatalog(palette.Builtin())
	err := catalog.Register(palette.NodeTemplate{
		ID:      "delay",
		Label:   "Delay",
		Inputs:  1,
		Outputs: 1,
		Params:  []palette.Param{palette.NumberParam("Seconds", 1)},
	})
	reg := catalog.Snapshot()

Persisting nodes:

	rec := node.Record()
	restored, err := palette.Restore(reg, rec)
*/
package palette
