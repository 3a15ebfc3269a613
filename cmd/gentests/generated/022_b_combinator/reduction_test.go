package gentests

import (
	"testing"

	"github.com/vic/alienvm/cmd/gentests/helper"
)

const program = "x0 = 42\nmain = ap ap ap b inc dec x0"
const expected = "42"

func Test_022_b_combinator_Scenario(t *testing.T) {
	gentests.CheckScenario(t, "022_b_combinator", program, expected)
}
