/*
Package operation applies a plan to the filesystem.

	+-------------+      +-------------+      +-------------+
	|    Copy     | ---> |  Validate   | ---> |   Delete    |
	| (per entry) |      | (per entry) |      | (guarded)   |
	+------+------+      +-------------+      +-------------+
	       |
	+------+------+
	|   Report    |
	| (outcomes)  |
	+-------------+

🎯 Purpose:
- Preview a plan without touching anything (dry run)
- Copy every entry, then check the copy against its source
- Optionally remove the source, but only after a second check passes

🔄 Flow per entry:
1. Copy: directories merge into an existing destination, files keep their
   mode and modification time, symlinks are recreated or followed
2. Validate: type for directories, link text (or resolved target) for
   recreated links, byte size for files
3. Re-validate and delete when SequentialDelete is set

⚡ Failure model:
- Every entry ends in a status.Outcome; failures are values, not errors
- A failing entry never stops the batch
- Only a cancelled context ends Apply early, between two entries

⚠️ File validation compares sizes only. Two different files of the same
size validate as equal unless VerifyChecksum is set.

🔍 Example:

	exec := operation.New(operation.Options{SequentialDelete: true})
	report, err := exec.Apply(ctx, m)
	if err != nil {
		return err
	}
	if report.Failed() > 0 {
		return errors.Errorf("%d entries failed", report.Failed())
	}
*/
package operation
