package atarigen

import "atarihw/emu/log"

var (
	modGen     = log.NewModule("atarigen")
	modEEPROM  = log.NewModule("eeprom")
	modMailbox = log.NewModule("mailbox")
)
