package decision

// Merge folds the result of a required decision into ctx so the requiring
// decision can read it as ordinary input. additional is either one output
// object or a list of them (COLLECT and RULE_ORDER results). Every property
// contributed by a list becomes a slice in ctx, even for a single element.
// Only map[string]any is merged recursively; dates and other structs are
// treated as scalars.
func Merge(ctx map[string]any, additional any) {
	merge(ctx, additional, false)
}

func merge(ctx map[string]any, additional any, aggregate bool) {
	switch t := additional.(type) {
	case []map[string]any:
		for _, item := range t {
			merge(ctx, item, true)
		}
	case []any:
		for _, item := range t {
			merge(ctx, item, true)
		}
	case map[string]any:
		for prop, value := range t {
			mergeProperty(ctx, prop, value, aggregate)
		}
	}
}

func mergeProperty(ctx map[string]any, prop string, value any, aggregate bool) {
	if existing, ok := ctx[prop].([]any); ok {
		switch v := value.(type) {
		case []any:
			ctx[prop] = append(existing, v...)
		case nil:
		default:
			ctx[prop] = append(existing, v)
		}
		return
	}

	switch v := value.(type) {
	case map[string]any:
		child, ok := ctx[prop].(map[string]any)
		if !ok {
			child = map[string]any{}
			ctx[prop] = child
		}
		merge(child, v, aggregate)
	case []any:
		ctx[prop] = append([]any(nil), v...)
	default:
		setScalar(ctx, prop, v, aggregate)
	}
}

func setScalar(ctx map[string]any, prop string, value any, aggregate bool) {
	if aggregate {
		ctx[prop] = []any{value}
		return
	}
	ctx[prop] = value
}
