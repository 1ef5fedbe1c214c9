package snapshot

import "atarihw/emu/log"

var modSnap = log.NewModule("snapshot")
