package gentests

import (
	"testing"

	"github.com/vic/alienvm/cmd/gentests/helper"
)

const program = "main = ap ap ap s add inc 1"
const expected = "3"

func Test_020_s_combinator_Scenario(t *testing.T) {
	gentests.CheckScenario(t, "020_s_combinator", program, expected)
}
