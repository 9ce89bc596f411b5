package hierarchy

import "strconv"

func id(i int) string { return "m" + strconv.Itoa(i) }
