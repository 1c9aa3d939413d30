// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package config loads reshelve job files.

	            +-------------+
	            |   Config    |
	            |   (Job)     |
	            +------+------+
	                   |
	      +-----------+-----------+-----------+
	      |           |           |           |
	+-----+-----+ +---+---+ +-----+-----+     |
	|   HCL     | | YAML  | |   JSON    |  Validate
	+-----------+ +-------+ +-----------+

🎯 Purpose:
- Describes one reorganization job: where, which planner, how to apply
- Picks the format from the file extension
- Resolves relative paths against the job file's directory

⚡ Rules:
- Exactly one planner block (substitute, combine, split, prepend, reorder, table)
- base_dir is required
- apply.dry_run is true unless set to false

🔍 Example:

	base_dir   = "./dataset"
	record_dir = "./provenance"

	apply {
	  dry_run           = false
	  sequential_delete = true
	}

	combine {
	  hierarchies = [["ses-01", "run-01"]]
	  copy_folder = "securecopy"
	}
*/
package config
