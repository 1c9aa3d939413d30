/*
Package status describes what happened to each entry of an applied plan.

	+-------------+      +-------------+      +-------------+
	|  Executor   | ---> |   Tracker   | ---> |  Formatter  |
	| (per entry) |      |  (results)  |      | (UI / logs) |
	+-------------+      +-------------+      +-------------+

🎯 Purpose:
- Name every per-entry outcome as a value (Outcome)
- Collect results in processing order and count them
- Render entries and progress for humans

📊 Outcomes:
  - planned: dry run, nothing touched
  - copied: copied and validated, source kept
  - deleted: copied, validated twice, source removed
  - validation_failed: copy finished but does not match the source
  - delete_guard_failed: second validation failed, source kept
  - copy_failed: the copy itself failed
  - delete_failed: removing the source failed after a good copy

Only the last four are failures. A failure never stops the batch.

🔍 Example:

	tracker := status.NewTracker(logger, status.NewDefaultFileFormatter())
	tracker.StartOperation(ctx, m.Len())
	tracker.Track(ctx, status.Result{Src: src, Dst: dst, Outcome: status.Copied})
	tracker.FinishOperation(ctx)
*/
package status
