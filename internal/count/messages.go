package count

import (
	"fmt"

	"github.com/dtnitsch/topwords/models"
)

const usageLine = "Usage: topwords 5 /tmp /home/user/file.txt"

// User-facing messages printed on a failed invocation.
var (
	MsgInvalidArguments = "Incorrect number of arguments.\n" +
		"Expected at least two arguments, the number of words and a path.\n" + usageLine

	MsgNonInteger = "The first argument must be a number.\n" + usageLine

	MsgExceedsMaxTopN = fmt.Sprintf("The first argument exceeds the word limit.\n"+
		"Value must be at most %d.\n%s", models.MaxTopN, usageLine)

	MsgBelowMinTopN = "The first argument must be at least 1.\n" + usageLine

	MsgPathDoesNotExist = "The path provided does not exist or is not readable.\n" + usageLine

	MsgExecutionFailed = "Unexpected error: the program encountered an unexpected problem."
)

const (
	wordsHeaderFormat = "Top %d words:\n"
	wordsItemFormat   = "word %s occurred %d times\n"
)
