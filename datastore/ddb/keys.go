/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/dataaccess/registry"
)

// Attribute names the store writes next to the record's own fields.
const (
	PartitionKey   = "PK"
	SortKey        = "SK"
	EntityTypeAttr = "EntityType"
	StorageIDAttr  = "StorageID"
	storageIDMacro = "{" + StorageIDAttr + "}"
)

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

// keyMapFor returns the registered key map of an entity type, or the
// default one placing each record in its own partition.
func keyMapFor(entityName string) map[string]string {
	if keyMap, ok := registry.GetKeyMap(entityName); ok {
		return keyMap
	}
	return map[string]string{
		PartitionKey: entityName + "#" + storageIDMacro,
		SortKey:      entityName,
	}
}

// expandMacros replaces every {Field} in the key map templates with the
// value of that attribute in item.
func expandMacros(keyMap map[string]string, item map[string]types.AttributeValue) map[string]string {
	res := make(map[string]string, len(keyMap))

	for attrName, template := range keyMap {
		res[attrName] = macroPattern.ReplaceAllStringFunc(template, func(macro string) string {
			key := strings.Trim(macro, "{}")

			val, ok := item[key]
			if !ok {
				return ""
			}

			switch tv := val.(type) {
			case *types.AttributeValueMemberS:
				return tv.Value
			case *types.AttributeValueMemberN:
				return tv.Value
			case *types.AttributeValueMemberBOOL:
				return fmt.Sprintf("%v", tv.Value)
			default:
				// null, binary, sets, lists and maps have no key form
				return ""
			}
		})
	}

	return res
}

// primaryKey builds the DynamoDB key from expanded key attributes.
func primaryKey(expanded map[string]string) (map[string]types.AttributeValue, error) {
	pk, okPK := expanded[PartitionKey]
	sk, okSK := expanded[SortKey]

	if !okPK || !okSK || pk == "" || sk == "" {
		return nil, fmt.Errorf("expanded key map missing valid %s or %s", PartitionKey, SortKey)
	}

	return map[string]types.AttributeValue{
		PartitionKey: &types.AttributeValueMemberS{Value: pk},
		SortKey:      &types.AttributeValueMemberS{Value: sk},
	}, nil
}

// sameKey reports whether two keys address the same item.
func sameKey(a, b map[string]types.AttributeValue) bool {
	for _, name := range []string{PartitionKey, SortKey} {
		as, ok1 := a[name].(*types.AttributeValueMemberS)
		bs, ok2 := b[name].(*types.AttributeValueMemberS)
		if !ok1 || !ok2 || as.Value != bs.Value {
			return false
		}
	}
	return true
}
