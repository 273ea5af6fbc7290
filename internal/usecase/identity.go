package usecase

import (
	"context"
	"strings"

	"github.com/velorent/rentalsync/internal/domain/feed"
	"github.com/velorent/rentalsync/internal/domain/model"
	"github.com/velorent/rentalsync/internal/domain/repository"
)

// resolveCustomer resolves or creates the canonical customer for a row.
// Email is the identity key. Rows without one get the deterministic
// placeholder derived from the booking reference, so re-imports hit the
// same customer; a later row carrying a real email upgrades that
// placeholder identity in place, never the other way around.
//
// Placeholder identities dedupe per booking reference only, not globally:
// the same real person behind two references stays two customer rows until
// a real email links them. Accepted behavior.
func (r *Reconciler) resolveCustomer(ctx context.Context, ds repository.Datastore, row feed.Row, reference string) (*model.Customer, error) {
	placeholder := model.PlaceholderEmail(reference)

	email, found := feed.First(row, feed.EmailKeys...)
	if found {
		email = strings.ToLower(email)
	} else {
		email = placeholder
	}

	customer := &model.Customer{
		Email:        email,
		SourceSystem: &r.profile.Source,
	}
	attrs := map[string]any{}
	meta := model.JSONB{}

	if name, ok := feed.First(row, feed.NameKeys...); ok {
		customer.FirstName, customer.LastName = splitName(name)
		attrs["first_name"] = customer.FirstName
		attrs["last_name"] = customer.LastName
		meta["name"] = name
	}
	if phone, ok := feed.First(row, feed.PhoneKeys...); ok {
		customer.Phone = phone
		attrs["phone"] = phone
		meta["phone"] = phone
	}
	if found {
		meta["email"] = email
	}

	// The raw contact fields are archived for audit; the source id is
	// recorded on insert only, since the email key owns identity.
	if id, ok := feed.First(row, feed.IDKeys...); ok {
		customer.SourceID = &id
	}
	if len(meta) > 0 {
		customer.Metadata = meta
		attrs["metadata"] = meta
	}

	if found && !model.IsPlaceholderEmail(email) {
		if err := r.upgradePlaceholder(ctx, ds, placeholder, email); err != nil {
			return nil, err
		}
	}

	return ds.Customers().Upsert(ctx, customer, attrs)
}

// upgradePlaceholder rewrites a previously synthesized identity to the real
// address now known for the same reference. One-way: a real email is never
// replaced by a placeholder. When the real address already belongs to
// another customer the placeholder row is left alone and the real row wins.
func (r *Reconciler) upgradePlaceholder(ctx context.Context, ds repository.Datastore, placeholder, email string) error {
	existing, err := ds.Customers().GetByEmail(ctx, placeholder)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}

	taken, err := ds.Customers().GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if taken != nil {
		return nil
	}

	return ds.Customers().UpdateEmail(ctx, existing.ID, email)
}

// splitName splits a free-text name: first token is the first name, the
// rest joined is the last name. Single-token names yield an empty last
// name.
func splitName(name string) (string, string) {
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return "", ""
	}
	return tokens[0], strings.Join(tokens[1:], " ")
}
