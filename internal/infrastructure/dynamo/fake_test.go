package dynamo

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo is an in-memory API covering the expressions the repos emit.
type fakeDynamo struct {
	mu     sync.Mutex
	pk     map[string]string
	tables map[string]map[string]map[string]types.AttributeValue
	err    error
}

func newFakeDynamo(pk map[string]string) *fakeDynamo {
	f := &fakeDynamo{pk: pk, tables: map[string]map[string]map[string]types.AttributeValue{}}
	for t := range pk {
		f.tables[t] = map[string]map[string]types.AttributeValue{}
	}
	return f
}

func sval(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func clone(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	if item == nil {
		return nil
	}
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func (f *fakeDynamo) keyOf(table string, item map[string]types.AttributeValue) string {
	return sval(item[f.pk[table]])
}

// condOK evaluates attribute_exists / attribute_not_exists on the primary key.
func condOK(cond *string, exists bool) bool {
	if cond == nil {
		return true
	}
	switch {
	case strings.HasPrefix(*cond, "attribute_not_exists"):
		return !exists
	case strings.HasPrefix(*cond, "attribute_exists"):
		return exists
	}
	return true
}

// clausesOK evaluates "#a = :b" and "#a > :b" clauses joined by AND.
// Missing attributes fail every comparison.
func clausesOK(cond *string, item map[string]types.AttributeValue, names map[string]string, values map[string]types.AttributeValue) bool {
	if cond == nil || strings.HasPrefix(*cond, "attribute_") {
		return true
	}
	for _, clause := range strings.Split(*cond, " AND ") {
		var op string
		var parts []string
		switch {
		case strings.Contains(clause, " = "):
			op, parts = "=", strings.SplitN(clause, " = ", 2)
		case strings.Contains(clause, " > "):
			op, parts = ">", strings.SplitN(clause, " > ", 2)
		default:
			return false
		}
		have, ok := item[names[parts[0]]]
		if !ok {
			return false
		}
		want := values[parts[1]]
		switch op {
		case "=":
			if sval(have) != sval(want) || nval(have) != nval(want) {
				return false
			}
		case ">":
			if nval(have) <= nval(want) {
				return false
			}
		}
	}
	return true
}

func nval(av types.AttributeValue) int64 {
	if n, ok := av.(*types.AttributeValueMemberN); ok {
		v, _ := strconv.ParseInt(n.Value, 10, 64)
		return v
	}
	return 0
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	item := f.tables[*in.TableName][f.keyOf(*in.TableName, in.Key)]
	return &dynamodb.GetItemOutput{Item: clone(item)}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	k := f.keyOf(*in.TableName, in.Item)
	_, exists := f.tables[*in.TableName][k]
	if !condOK(in.ConditionExpression, exists) {
		return nil, &types.ConditionalCheckFailedException{}
	}
	f.tables[*in.TableName][k] = clone(in.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	k := f.keyOf(*in.TableName, in.Key)
	item, exists := f.tables[*in.TableName][k]
	if !condOK(in.ConditionExpression, exists) {
		return nil, &types.ConditionalCheckFailedException{}
	}
	if !exists {
		item = clone(in.Key)
	}
	for _, set := range strings.Split(strings.TrimPrefix(*in.UpdateExpression, "SET "), ", ") {
		parts := strings.SplitN(set, " = ", 2)
		item[in.ExpressionAttributeNames[parts[0]]] = in.ExpressionAttributeValues[parts[1]]
	}
	f.tables[*in.TableName][k] = item
	out := &dynamodb.UpdateItemOutput{}
	if in.ReturnValues == types.ReturnValueAllNew {
		out.Attributes = clone(item)
	}
	return out, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	k := f.keyOf(*in.TableName, in.Key)
	old, exists := f.tables[*in.TableName][k]
	if !condOK(in.ConditionExpression, exists) ||
		!clausesOK(in.ConditionExpression, old, in.ExpressionAttributeNames, in.ExpressionAttributeValues) {
		return nil, &types.ConditionalCheckFailedException{}
	}
	delete(f.tables[*in.TableName], k)
	out := &dynamodb.DeleteItemOutput{}
	if in.ReturnValues == types.ReturnValueAllOld {
		out.Attributes = old
	}
	return out, nil
}

// Query supports equality on a single string attribute bound to :uid.
func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	attr := strings.SplitN(*in.KeyConditionExpression, " = ", 2)[0]
	want := sval(in.ExpressionAttributeValues[":uid"])
	out := &dynamodb.QueryOutput{}
	for _, item := range f.tables[*in.TableName] {
		if sval(item[attr]) == want {
			out.Items = append(out.Items, clone(item))
		}
	}
	return out, nil
}

func (f *fakeDynamo) TransactWriteItems(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, ti := range in.TransactItems {
		switch {
		case ti.Put != nil:
			_, exists := f.tables[*ti.Put.TableName][f.keyOf(*ti.Put.TableName, ti.Put.Item)]
			if !condOK(ti.Put.ConditionExpression, exists) {
				return nil, &types.TransactionCanceledException{}
			}
		case ti.Delete != nil:
			_, exists := f.tables[*ti.Delete.TableName][f.keyOf(*ti.Delete.TableName, ti.Delete.Key)]
			if !condOK(ti.Delete.ConditionExpression, exists) {
				return nil, &types.TransactionCanceledException{}
			}
		}
	}
	for _, ti := range in.TransactItems {
		switch {
		case ti.Put != nil:
			f.tables[*ti.Put.TableName][f.keyOf(*ti.Put.TableName, ti.Put.Item)] = clone(ti.Put.Item)
		case ti.Delete != nil:
			delete(f.tables[*ti.Delete.TableName], f.keyOf(*ti.Delete.TableName, ti.Delete.Key))
		}
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}
