package domain

// Customer is the persisted customer record. An ID of zero means the record
// has not been stored yet; stores assign the ID on insert and never reuse it.
type Customer struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	Email        string `json:"email"`
	Age          int    `json:"age"`
	Gender       string `json:"gender"`
}

// Persisted reports whether the record has been assigned an ID by a store.
func (c Customer) Persisted() bool {
	return c.ID != 0
}

// Apply writes every set or cleared field of p onto c. Unset fields are left
// untouched.
func (c *Customer) Apply(p CustomerPatch) {
	if v, ok := p.Name.Get(); ok {
		c.Name = v
	} else if p.Name.IsClear() {
		c.Name = ""
	}
	if v, ok := p.Email.Get(); ok {
		c.Email = v
	} else if p.Email.IsClear() {
		c.Email = ""
	}
	if v, ok := p.Age.Get(); ok {
		c.Age = v
	} else if p.Age.IsClear() {
		c.Age = 0
	}
	if v, ok := p.Gender.Get(); ok {
		c.Gender = v
	} else if p.Gender.IsClear() {
		c.Gender = ""
	}
	if v, ok := p.PasswordHash.Get(); ok {
		c.PasswordHash = v
	} else if p.PasswordHash.IsClear() {
		c.PasswordHash = ""
	}
}
