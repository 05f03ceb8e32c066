package settings

import (
	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/jsondoc"
)

// Skip records a value the merge could not combine.
type Skip struct {
	Pointer string
	Reason  string
}

// DroppedKey records a dangerous key removed from one of the inputs.
type DroppedKey struct {
	// Source is "new" or "existing".
	Source  string
	Pointer string
}

// Report describes what a merge left alone. A merge never fails; callers
// decide whether to surface the report.
type Report struct {
	Skipped []Skip
	Dropped []DroppedKey
}

// Empty reports whether nothing was skipped or dropped.
func (r *Report) Empty() bool {
	return r == nil || (len(r.Skipped) == 0 && len(r.Dropped) == 0)
}

func (r *Report) skip(pointer, reason string) {
	r.Skipped = append(r.Skipped, Skip{Pointer: pointer, Reason: reason})
}

func (r *Report) drop(source, pointer string) {
	r.Dropped = append(r.Dropped, DroppedKey{Source: source, Pointer: pointer})
}

// Options controls a Reconciler.
type Options struct {
	// AdoptNewKeys copies top-level keys only the new document has, such as
	// $schema or env. Existing values are never replaced.
	AdoptNewKeys bool
}

// Reconciler combines a newly generated settings document with the one on
// disk without losing user customizations.
type Reconciler struct {
	opts Options
}

// NewReconciler returns a Reconciler using opts.
func NewReconciler(opts Options) *Reconciler {
	return &Reconciler{opts: opts}
}

// Reconcile returns the merge of newDoc into existing. The result starts from
// a copy of existing with dangerous keys removed at every depth; hooks and
// permissions from newDoc are then merged in. Neither input is modified and a
// nil input counts as an empty document.
func (r *Reconciler) Reconcile(newDoc, existing *Document) (*Document, *Report) {
	rep := &Report{}
	result := sanitizedObject(existing.Object(), "existing", "", rep)
	incoming := sanitizedObject(newDoc.Object(), "new", "", rep)

	for _, key := range incoming.Keys() {
		nv, _ := incoming.Get(key)
		switch key {
		case keyHooks:
			result.Set(key, mergeSection(result, key, nv, rep, mergeHooks))
		case keyPermissions:
			result.Set(key, mergeSection(result, key, nv, rep, mergePermissions))
		default:
			if r.opts.AdoptNewKeys && !result.Has(key) {
				result.Set(key, nv)
			}
		}
	}
	return FromObject(result), rep
}

// MergeSettings merges the hooks and permissions of newDoc into existing and
// returns the result. Other keys of newDoc are ignored.
func MergeSettings(newDoc, existing *Document) *Document {
	doc, _ := NewReconciler(Options{}).Reconcile(newDoc, existing)
	return doc
}

type sectionMerger func(existing, incoming *jsondoc.Object, prefix string, rep *Report) *jsondoc.Object

// mergeSection merges the object-valued section key of result with incoming.
// A section only incoming has is taken from it; otherwise a section of any
// other shape on either side leaves the existing value as it is.
func mergeSection(result *jsondoc.Object, key string, incoming any, rep *Report, merge sectionMerger) any {
	pointer := jsondoc.Pointer(key)
	cur, ok := result.Get(key)
	if !ok {
		add, ok := incoming.(*jsondoc.Object)
		if !ok {
			return incoming
		}
		return merge(jsondoc.NewObject(), add, pointer, rep)
	}
	existing, ok := cur.(*jsondoc.Object)
	if !ok {
		rep.skip(pointer, "existing value is not an object; new values were not merged")
		return cur
	}
	add, ok := incoming.(*jsondoc.Object)
	if !ok {
		rep.skip(pointer, "new value is not an object; existing values were kept")
		return cur
	}
	return merge(existing, add, pointer, rep)
}

// sanitizedObject returns a copy of obj without dangerous keys, recording each
// removed key in rep.
func sanitizedObject(obj *jsondoc.Object, source, prefix string, rep *Report) *jsondoc.Object {
	if obj == nil {
		return jsondoc.NewObject()
	}
	clean := jsondoc.SanitizeFunc(obj, func(pointer string) {
		rep.drop(source, prefix+pointer)
	})
	return clean.(*jsondoc.Object)
}
