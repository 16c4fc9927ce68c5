// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"github.com/poiesic/vitae/core"
)

// codec is the shape of every generated serializer in core.
type codec[T any] interface {
	Marshal(v T, bs []byte) int
	Unmarshal(bs []byte) (T, int, error)
	Size(v T) int
}

func marshal[T any](c codec[T], v T) []byte {
	buf := make([]byte, c.Size(v))
	c.Marshal(v, buf)
	return buf
}

func unmarshal[T any](c codec[T], data []byte) (*T, error) {
	v, _, err := c.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	return marshal[core.ID](core.IDMUS, id)
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalCV serializes a CV to bytes.
func MarshalCV(cv *core.CV) []byte {
	return marshal[core.CV](core.CVMUS, *cv)
}

// UnmarshalCV deserializes a CV from bytes.
func UnmarshalCV(data []byte) (*core.CV, error) {
	return unmarshal[core.CV](core.CVMUS, data)
}

// MarshalCategory serializes a Category to bytes.
func MarshalCategory(category *core.Category) []byte {
	return marshal[core.Category](core.CategoryMUS, *category)
}

// UnmarshalCategory deserializes a Category from bytes.
func UnmarshalCategory(data []byte) (*core.Category, error) {
	return unmarshal[core.Category](core.CategoryMUS, data)
}

// MarshalEntry serializes an Entry to bytes.
func MarshalEntry(entry *core.Entry) []byte {
	return marshal[core.Entry](core.EntryMUS, *entry)
}

// UnmarshalEntry deserializes an Entry from bytes.
func UnmarshalEntry(data []byte) (*core.Entry, error) {
	return unmarshal[core.Entry](core.EntryMUS, data)
}

// MarshalPendingEntry serializes a PendingEntry to bytes.
func MarshalPendingEntry(entry *core.PendingEntry) []byte {
	return marshal[core.PendingEntry](core.PendingEntryMUS, *entry)
}

// UnmarshalPendingEntry deserializes a PendingEntry from bytes.
func UnmarshalPendingEntry(data []byte) (*core.PendingEntry, error) {
	return unmarshal[core.PendingEntry](core.PendingEntryMUS, data)
}

// MarshalProfile serializes a Profile to bytes.
func MarshalProfile(profile *core.Profile) []byte {
	return marshal[core.Profile](core.ProfileMUS, *profile)
}

// UnmarshalProfile deserializes a Profile from bytes.
func UnmarshalProfile(data []byte) (*core.Profile, error) {
	return unmarshal[core.Profile](core.ProfileMUS, data)
}

// MarshalTask serializes a Task to bytes.
func MarshalTask(task *core.Task) []byte {
	return marshal[core.Task](core.TaskMUS, *task)
}

// UnmarshalTask deserializes a Task from bytes.
func UnmarshalTask(data []byte) (*core.Task, error) {
	return unmarshal[core.Task](core.TaskMUS, data)
}

// MarshalCreditAccount serializes a CreditAccount to bytes.
func MarshalCreditAccount(account *core.CreditAccount) []byte {
	return marshal[core.CreditAccount](core.CreditAccountMUS, *account)
}

// UnmarshalCreditAccount deserializes a CreditAccount from bytes.
func UnmarshalCreditAccount(data []byte) (*core.CreditAccount, error) {
	return unmarshal[core.CreditAccount](core.CreditAccountMUS, data)
}

// MarshalCreditDebit serializes a CreditDebit to bytes.
func MarshalCreditDebit(debit *core.CreditDebit) []byte {
	return marshal[core.CreditDebit](core.CreditDebitMUS, *debit)
}

// UnmarshalCreditDebit deserializes a CreditDebit from bytes.
func UnmarshalCreditDebit(data []byte) (*core.CreditDebit, error) {
	return unmarshal[core.CreditDebit](core.CreditDebitMUS, data)
}
