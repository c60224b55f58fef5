/*
Package bindings loads and shapes the variable documents that become
evaluation environments.

A Bindings wraps a map[string]any with typed accessors, so host code can
read structured values without hand-rolled type assertions:

	b, err := bindings.FromFile("vars.yaml")
	if err != nil {
	    return err
	}

	region := b.String("region", "us-east-1")
	retries := b.Int("retries", 3)
	timeout := b.Duration("timeout", 30*time.Second)

Documents may carry placeholders that are resolved before use:

	b, err = b.Expand(map[string]any{"env": "prod"})
	// "https://${env}.example.com" -> "https://prod.example.com"

Once shaped, a Bindings becomes an evaluation environment directly:

	env := evaltree.NewEnv(b.Raw())
	outcome, err := compiled.Evaluate(ctx, env)

Bindings files configure environments only; expression trees are built in
code, never loaded from documents.
*/
package bindings
