package gentests

import (
	"testing"

	"github.com/vic/alienvm/cmd/gentests/helper"
)

const program = "main = ap cdr ap ap cons 1 2"
const expected = "2"

func Test_031_cdr_Scenario(t *testing.T) {
	gentests.CheckScenario(t, "031_cdr", program, expected)
}
