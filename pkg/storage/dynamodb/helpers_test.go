package dynamodb

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/fair-wallet/pkg/models"
	"github.com/chris/fair-wallet/pkg/money"
	"github.com/chris/fair-wallet/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testTables = Tables{
	Accounts:     "accounts",
	Products:     "products",
	Transactions: "transactions",
	Recharges:    "recharges",
}

func newTestStore(client *mocks.DynamoDBAPI) *Store {
	return New(client, testTables)
}

func studentAccount(id string, balance string, version int64) *models.Account {
	b := money.MustParse(balance)
	return &models.Account{ID: id, Name: "Student " + id, Role: models.RoleStudent, Balance: &b, Version: version}
}

func stallAccount(id string) *models.Account {
	return &models.Account{ID: id, Name: "Stall " + id, Role: models.RoleStall}
}

func itemOf(t *testing.T, v interface{}) map[string]types.AttributeValue {
	t.Helper()
	av, err := attributevalue.MarshalMap(v)
	require.NoError(t, err)
	return av
}

// getItemFor matches a GetItem call on the given table and id.
func getItemFor(table, id string) interface{} {
	return mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
		key, ok := in.Key["id"].(*types.AttributeValueMemberS)
		return aws.ToString(in.TableName) == table && ok && key.Value == id
	})
}

func canceled(codes ...string) error {
	reasons := make([]types.CancellationReason, len(codes))
	for i, c := range codes {
		if c != "" {
			reasons[i] = types.CancellationReason{Code: aws.String(c)}
		} else {
			reasons[i] = types.CancellationReason{Code: aws.String("None")}
		}
	}
	return &types.TransactionCanceledException{
		Message:             aws.String("Transaction cancelled"),
		CancellationReasons: reasons,
	}
}
