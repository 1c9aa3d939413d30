/*
Package plan computes reorganization plans for a dataset tree.

	+-----------+      +-----------+      +-------------+
	|  Planner  | ---> |    Map    | ---> |  Conflicts  |
	| (pure fn) |      | src -> dst|      |  (gate)     |
	+-----------+      +-----------+      +-------------+

🎯 Purpose:
- Turn a directory tree plus a rule set into an ordered src -> dst Map
- Never touch the filesystem beyond reading it
- Refuse obviously broken input early (ErrInvalidInput)

🧩 Planners:
  - Substitute: find/replace (+ prefix) over the base-relative path
  - Combine / Split: collapse nested folders into one "a_b_c" folder and back
  - Prepend: move folder names into the file name
  - Reorder: reassemble path segments through a StructureTemplate
  - FromTable: rename a keyed folder from a dataset of records

⚠️ Skips are not errors. A file that does not fit a template, a record
with a missing placeholder or a duplicate destination is left out of the
Map and recorded as a Warning on it.

🔍 Example:

	m, err := plan.Substitute(ctx, plan.SubstituteOptions{
		BaseDir: "/data/study",
		Files:   files,
		Find:    []string{"sub"},
		Replace: []string{"participant"},
		Strict:  true,
	})
	if err != nil {
		return err
	}
	if plan.HasConflicts(m) {
		return errors.New("refusing to apply a conflicting plan")
	}
*/
package plan
