package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection            *mongo.Collection
	SupplierProfileCollection *mongo.Collection
	BuyerProfileCollection    *mongo.Collection
	ProductsCollection        *mongo.Collection
	CartCollection            *mongo.Collection
	OrdersCollection          *mongo.Collection
	RFQCollection             *mongo.Collection
	RFQResponsesCollection    *mongo.Collection
	MessagesCollection        *mongo.Collection
	DisputesCollection        *mongo.Collection
	EscrowCollection          *mongo.Collection
	TradeAssuranceCollection  *mongo.Collection
	QuotesCollection          *mongo.Collection
	TransactionsCollection    *mongo.Collection
	Client                    *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	var err error
	Client, err = mongo.Connect(context.TODO(), options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("agrimarket")
	UserCollection = database.Collection("users")
	SupplierProfileCollection = database.Collection("supplierprofiles")
	BuyerProfileCollection = database.Collection("buyerprofiles")
	ProductsCollection = database.Collection("products")
	CartCollection = database.Collection("cartitems")
	OrdersCollection = database.Collection("orders")
	RFQCollection = database.Collection("rfqs")
	RFQResponsesCollection = database.Collection("rfqresponses")
	MessagesCollection = database.Collection("messages")
	DisputesCollection = database.Collection("disputes")
	EscrowCollection = database.Collection("escrows")
	TradeAssuranceCollection = database.Collection("tradeassurances")
	QuotesCollection = database.Collection("quotes")
	TransactionsCollection = database.Collection("transactions")
}
