package normalize

// userAccountControl flag bits the reports read.
// https://learn.microsoft.com/en-us/windows/win32/adschema/a-useraccountcontrol
const (
	uacAccountDisable      = 0x2
	uacLockout             = 0x10
	uacPasswordNotRequired = 0x20
	uacDontExpirePassword  = 0x10000
)

// UAC wraps a raw userAccountControl bitmask.
type UAC uint32

func (u UAC) Disabled() bool {
	return u&uacAccountDisable != 0
}

func (u UAC) LockedOut() bool {
	return u&uacLockout != 0
}

func (u UAC) PasswordNotRequired() bool {
	return u&uacPasswordNotRequired != 0
}

func (u UAC) PasswordNeverExpires() bool {
	return u&uacDontExpirePassword != 0
}
