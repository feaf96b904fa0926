// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff_test

import (
	"fmt"

	"github.com/jeranaias/linepatch/internal/diff"
	"github.com/jeranaias/linepatch/internal/lines"
	"github.com/jeranaias/linepatch/internal/patch"
)

func ExampleCompute() {
	original := lines.Split("alpha\nbeta\ngamma\n")
	target := lines.Split("alpha\nBETA\ngamma\n")

	res := diff.Compute(original, target, diff.DefaultCosts())

	text, _ := patch.Format(res.Script)
	fmt.Print(text)
	fmt.Println("cost:", res.Cost)

	// Output:
	// = 2
	// BETA
	// cost: 15
}

func ExamplePreview() {
	original := lines.Split("line1\nline2\nline3\n")
	script := patch.Script{patch.SubstituteAt(2, "modified\n")}

	out, _ := diff.Preview("file.txt", original, script)
	fmt.Print(out)

	// Output:
	// --- a/file.txt
	// +++ b/file.txt
	// @@ -1,3 +1,3 @@
	//  line1
	// -line2
	// +modified
	//  line3
}

func ExampleStats_Summary() {
	original := lines.Split("a\nb\nc\nd\n")
	target := lines.Split("a\nB\n")

	res := diff.Compute(original, target, diff.DefaultCosts())
	fmt.Println(diff.Measure(res.Script, res.Costs).Summary())

	// Output:
	// Modified +1 -3 (cost 27)
}
